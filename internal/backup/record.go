package backup

import "path"

// Backup is a single dated archive as reported by a reader.
type Backup struct {
	Name string // identifier handed back to the deleter (file name, object key)
	Date Date
}

// New classifies name. The date is read from the base name so that object
// keys such as "db/20230101.tar.gz" are accepted.
func New(name string) (Backup, error) {
	d, err := ParseDate(path.Base(name))
	if err != nil {
		return Backup{}, err
	}
	return Backup{Name: name, Date: d}, nil
}

// FromNames keeps the names that parse as backups, in their original order.
func FromNames(names []string) []Backup {
	backups := make([]Backup, 0, len(names))
	for _, n := range names {
		b, err := New(n)
		if err != nil {
			continue
		}
		backups = append(backups, b)
	}
	return backups
}
