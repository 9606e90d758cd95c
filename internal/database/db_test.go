package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	dsn := Options{User: "board", Pass: "s3cret", Host: "db", Port: "3306", Name: "price_board"}.DSN()
	assert.True(t, strings.HasPrefix(dsn, "board:s3cret@tcp(db:3306)/price_board?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	dsn = Options{User: "board", Host: "db", Port: "3306", Name: "pb"}.DSN()
	assert.True(t, strings.HasPrefix(dsn, "board@tcp(db:3306)/pb"), dsn)
}

func TestSchemaCoversEveryTable(t *testing.T) {
	assert.Len(t, schema, len(Tables))
	for i, name := range Tables {
		assert.Contains(t, schema[i], "CREATE TABLE IF NOT EXISTS "+name+" ")
	}
}
