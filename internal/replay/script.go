package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vango-dev/substate/internal/errors"
	"github.com/vango-dev/substate/pkg/substate"
)

// Op names a step operation.
type Op string

const (
	OpMount   Op = "mount"
	OpUnmount Op = "unmount"
	OpSet     Op = "set"
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpFlush   Op = "flush"
	OpPaint   Op = "paint"
	OpExpect  Op = "expect"
)

// Script is a parsed replay script.
type Script struct {
	// Name identifies the script in errors, usually its file name.
	Name string `json:"-"`

	Initial map[string]any `json:"initial,omitempty"`
	Steps   []Step         `json:"steps"`
}

// Step is one operation of a script. Which fields are used depends on Op.
type Step struct {
	Op      Op       `json:"op"`
	ID      string   `json:"id,omitempty"`
	Parent  string   `json:"parent,omitempty"`
	Key     *KeyName `json:"key,omitempty"`
	Value   any      `json:"value,omitempty"`
	Initial any      `json:"initial,omitempty"`
	Delta   *float64 `json:"delta,omitempty"`
}

// KeyName is a store key as written in a script: a string, or an integer
// that is stored under its decimal form.
type KeyName struct {
	key substate.Key
}

// UnmarshalJSON accepts a JSON string or integer.
func (k *KeyName) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		k.key = substate.At(name)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("key must be a string or an integer, got %s", data)
	}
	k.key = substate.Index(n)
	return nil
}

// key returns the engine key of a step; an absent key selects the whole
// store.
func (s Step) key() substate.Key {
	if s.Key == nil {
		return substate.Whole
	}
	return s.Key.key
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("R005").
			Wrap(err).
			WithSuggestion("pass the path of an existing JSON script")
	}
	return Parse(filepath.Base(path), data)
}

// Parse parses a script. Unknown fields are rejected so typos in step
// fields do not pass silently.
func Parse(name string, data []byte) (*Script, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	s := &Script{}
	if err := dec.Decode(s); err != nil {
		return nil, errors.New("R005").
			Wrap(fmt.Errorf("%s: %w", name, err)).
			WithSuggestion(`a script looks like {"initial": {...}, "steps": [{"op": "mount", "id": "A", "key": "count"}]}`)
	}
	if s.Steps == nil {
		return nil, errors.New("R005").
			Wrap(fmt.Errorf("%s: missing steps", name))
	}
	s.Name = name
	return s, nil
}
