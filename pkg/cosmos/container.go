package cosmos

import (
	"strings"
)

// Container identifies a collection inside a database. It scopes every
// document operation and owns no network state.
//
// Container values are immutable; use NewContainer to build one.
type Container struct {
	database string
	name     string
}

// NewContainer returns the container named name in database. Both names are
// required and may not contain characters that break the resource path.
func NewContainer(database, name string) (Container, error) {
	if err := validateName("database", database); err != nil {
		return Container{}, err
	}
	if err := validateName("container", name); err != nil {
		return Container{}, err
	}
	return Container{database: database, name: name}, nil
}

// MustNewContainer is like NewContainer but panics on invalid names.
func MustNewContainer(database, name string) Container {
	c, err := NewContainer(database, name)
	if err != nil {
		panic(err)
	}
	return c
}

func validateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidInput("NewContainer", kind+" name is required")
	}
	if strings.ContainsAny(name, `/\?#`) {
		return invalidInput("NewContainer", kind+` name may not contain '/', '\', '?' or '#'`)
	}
	return nil
}

// Database returns the database name.
func (c Container) Database() string { return c.database }

// Name returns the container name.
func (c Container) Name() string { return c.name }

// IsZero reports whether c was not built by NewContainer.
func (c Container) IsZero() bool {
	return c.database == "" || c.name == ""
}

// Path returns the container resource path, dbs/{db}/colls/{name}.
func (c Container) Path() string {
	return "dbs/" + c.database + "/colls/" + c.name
}

// DocumentsPath returns the document feed path of the container.
func (c Container) DocumentsPath() string {
	return c.Path() + "/docs"
}

// DocumentPath returns the resource path of the document with the given id.
func (c Container) DocumentPath(id string) string {
	return c.DocumentsPath() + "/" + id
}

func (c Container) String() string {
	return c.Path()
}
