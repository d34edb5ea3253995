package ase

import "os"

// LoadFile reads and decodes a sprite file from disk.
func LoadFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// SaveProject encodes p and writes it to filename.
func SaveProject(p *Project, filename string) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
