package infra

import (
	"strings"
	"testing"
)

func TestSchemaDeclaresAllTables(t *testing.T) {
	ddl := Schema()
	for _, table := range []string{"teams", "users", "auth_tokens", "tickets"} {
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("schema is missing table %s", table)
		}
	}
}
