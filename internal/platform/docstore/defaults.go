package docstore

import (
	"fmt"
	"os"
)

// DefaultsProvider supplies the seed data used when the stored document has
// none. Implementations must return a fresh value on every call.
type DefaultsProvider interface {
	Doctors() *Directory
}

// BuiltinDefaults is the directory shipped with the service: four
// specialties with two doctors each.
type BuiltinDefaults struct{}

func (BuiltinDefaults) Doctors() *Directory {
	d := NewDirectory()
	d.Set("cardiology", []Doctor{
		{ID: 1, Name: "Dr. Maria Alekseeva", Experience: "15 years of experience"},
		{ID: 2, Name: "Dr. Petr Ivanov", Experience: "12 years of experience"},
	})
	d.Set("neurology", []Doctor{
		{ID: 3, Name: "Dr. Anna Smirnova", Experience: "18 years of experience"},
		{ID: 4, Name: "Dr. Dmitry Kozlov", Experience: "10 years of experience"},
	})
	d.Set("therapy", []Doctor{
		{ID: 5, Name: "Dr. Elena Petrova", Experience: "20 years of experience"},
		{ID: 6, Name: "Dr. Igor Sidorov", Experience: "8 years of experience"},
	})
	d.Set("pediatrics", []Doctor{
		{ID: 7, Name: "Dr. Olga Novikova", Experience: "14 years of experience"},
		{ID: 8, Name: "Dr. Andrey Morozov", Experience: "11 years of experience"},
	})
	return d
}

// StaticDefaults serves a directory loaded once, e.g. from a seed file.
type StaticDefaults struct {
	directory *Directory
}

// LoadDefaultsFile reads a JSON object of specialty -> doctors from path.
func LoadDefaultsFile(path string) (*StaticDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read defaults file: %w", err)
	}
	dir := NewDirectory()
	if err := dir.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parse defaults file %s: %w", path, err)
	}
	return &StaticDefaults{directory: dir}, nil
}

func (s *StaticDefaults) Doctors() *Directory {
	return s.directory.Clone()
}
