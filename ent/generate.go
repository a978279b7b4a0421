//go:generate go run generate.go

// ent/generate.go
//
// Renders typed ent clients into ./generated and validates the schema. The
// service does not import them: repositories build queries with the ent SQL
// builder over sqlx, and internal/database mirrors these schemas.

package main

import (
	"log"

	"entgo.io/ent/entc"
	"entgo.io/ent/entc/gen"
)

func main() {
	err := entc.Generate("./schema", &gen.Config{
		Target:  "./generated", // Output to generated directory
		Package: "github.com/gurkanbulca/taskboard/ent/generated",
		Features: []gen.Feature{
			gen.FeatureEntQL,
		},
	})
	if err != nil {
		log.Fatal("running ent codegen:", err)
	}
}
