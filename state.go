package gravity

import (
	"compress/zlib"
	"encoding/gob"
	"fmt"
	"os"
)

/*

helpers to save and restore simulation state

*/

// SaveState writes the frame to path as a zlib-compressed gob stream.
func SaveState(path string, frame *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	defer file.Close()

	zw := zlib.NewWriter(file)
	if err := gob.NewEncoder(zw).Encode(frame); err != nil {
		os.Remove(path)
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// LoadState reads a state file written by SaveState.
func LoadState(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	defer file.Close()

	zr, err := zlib.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	defer zr.Close()

	var frame Frame
	if err := gob.NewDecoder(zr).Decode(&frame); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	return &frame, nil
}
