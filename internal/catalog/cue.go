package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schema constrains CUE catalogs. Article definitions are closed, so unknown
// fields are rejected.
const schema = `
#Article: {
	name:          string & !=""
	barcode?:      string
	selling_price: int & >=0
}

articles: [...#Article]
`

func decodeCUE(filename string, data []byte) (document, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema, cue.Filename("schema.cue"))
	if err := schemaValue.Err(); err != nil {
		return document{}, fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return document{}, fmt.Errorf("compile CUE: %w", err)
	}

	unified := schemaValue.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return document{}, fmt.Errorf("validate CUE: %w", err)
	}

	var doc document
	if err := unified.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("decode CUE: %w", err)
	}
	return doc, nil
}
