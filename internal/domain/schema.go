package domain

// SchemaDocument is the JSON text of one schema file. Location is the canonical
// path it was read from and is empty for synthetic documents.
type SchemaDocument struct {
	Location string
	Raw      []byte
}

var emptySchema = []byte("{}")

func EmptySchemaDocument() SchemaDocument {
	return SchemaDocument{Raw: append([]byte(nil), emptySchema...)}
}

func (d SchemaDocument) IsEmpty() bool {
	return d.Location == "" && string(d.Raw) == string(emptySchema)
}

// Worktree identifies the git work tree a schema lives in. Head is empty
// before the first commit.
type Worktree struct {
	Root string
	Head string
}
