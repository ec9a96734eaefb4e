package rhyme

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Compact is the build artifact shipped with the application: every word's rhyme key, and every rhyme
// key's alphabetically sorted words.
type Compact struct {
	WordToRhymeKey  map[string]string   `json:"wordToRhymeKey"`
	RhymeKeyToWords map[string][]string `json:"rhymeKeyToWords"`
}

// Write encodes c as JSON. Map keys are emitted in sorted order, so the same corpus always produces the
// same bytes.
func (c *Compact) Write(w io.Writer) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not encode compact dictionary: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes c to path, replacing any existing file only after the new one is complete.
func (c *Compact) WriteFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := c.Write(f); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func Read(r io.Reader) (*Compact, error) {
	var c Compact
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode compact dictionary: %w", err)
	}
	if c.WordToRhymeKey == nil || c.RhymeKeyToWords == nil {
		return nil, fmt.Errorf("compact dictionary is missing wordToRhymeKey or rhymeKeyToWords")
	}
	return &c, nil
}

func ReadFile(path string) (*Compact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
