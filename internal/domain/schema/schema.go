package schema

import "sort"

type Schema struct {
	index map[string]int
}

type Entry struct {
	Key    string `json:"key"`
	Column int    `json:"column"`
}

// Resolve builds a Schema from a header row. Earlier columns keep every key
// and alias they claim; blank headers are ignored.
func Resolve(header []string) Schema {
	s := Schema{index: make(map[string]int, len(header)*4)}
	for col, raw := range header {
		key := Normalize(raw)
		if key == "" {
			continue
		}
		s.claim(key, col)
		for _, alias := range Aliases(key) {
			s.claim(alias, col)
		}
	}
	return s
}

func (s Schema) claim(key string, col int) {
	if key == "" {
		return
	}
	if _, taken := s.index[key]; !taken {
		s.index[key] = col
	}
}

func (s Schema) Lookup(name string) (int, bool) {
	key := Normalize(name)
	if key == "" || len(s.index) == 0 {
		return 0, false
	}
	if col, ok := s.index[key]; ok {
		return col, true
	}
	for _, alias := range Aliases(key) {
		if col, ok := s.index[alias]; ok {
			return col, true
		}
	}
	return 0, false
}

func (s Schema) LookupAny(names ...string) (int, bool) {
	for _, name := range names {
		if col, ok := s.Lookup(name); ok {
			return col, true
		}
	}
	return 0, false
}

func (s Schema) Entries() []Entry {
	out := make([]Entry, 0, len(s.index))
	for key, col := range s.index {
		out = append(out, Entry{Key: key, Column: col + 1})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Column != out[j].Column {
			return out[i].Column < out[j].Column
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func (s Schema) Len() int {
	return len(s.index)
}
