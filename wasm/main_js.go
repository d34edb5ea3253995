//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/voxelsplace/aseio/api"
	"github.com/voxelsplace/aseio/ase"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func aseInfo(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing sprite bytes")
	}
	info, err := api.SpriteInfo(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := json.Marshal(info)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.Global().Get("JSON").Call("parse", string(out))
}

func aseRoundtrip(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing sprite bytes")
	}
	out, err := api.RoundtripBytes(bytesFromJS(args[0]), ase.DefaultEncodeOptions())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func ase2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing sprite bytes")
	}
	out, err := api.SpriteToGLB(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

// packSprites(files, compression?) where files maps names to Uint8Arrays.
func packSprites(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = bytesFromJS(filesObj.Get(k))
	}
	comp := ase.PackCompZlib
	if len(args) > 1 && args[1].Type() == js.TypeString {
		c, err := ase.ParsePackCompression(args[1].String())
		if err != nil {
			return js.ValueOf(err.Error())
		}
		comp = c
	}
	out, err := api.PackSprites(files, comp)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func unpackSprites(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	files, err := api.UnpackSpritePackToMemory(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// return an object mapping names->Uint8Array
	result := js.Global().Get("Object").New()
	for name, b := range files {
		result.Set(name, bytesToJS(b))
	}
	return result
}

func main() {
	js.Global().Set("aseInfo", js.FuncOf(aseInfo))
	js.Global().Set("aseRoundtrip", js.FuncOf(aseRoundtrip))
	js.Global().Set("ase2glb", js.FuncOf(ase2glb))
	js.Global().Set("packSprites", js.FuncOf(packSprites))
	js.Global().Set("unpackSprites", js.FuncOf(unpackSprites))
	select {}
}
