package chart

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type accountRecordTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("payments").
func (v *accountRecordTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("accounts").
func (v *accountRecordTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *accountRecordTableType) Columns() []string {
	return []string{"account_id", "code", "metadata", "enabled", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *accountRecordTableType) NewStruct() reform.Struct {
	return new(AccountRecord)
}

// NewRecord makes a new record for that table.
func (v *accountRecordTableType) NewRecord() reform.Record {
	return new(AccountRecord)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *accountRecordTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// AccountRecordTable represents accounts view or table in SQL database.
var AccountRecordTable = &accountRecordTableType{
	s: parse.StructInfo{Type: "AccountRecord", SQLSchema: "payments", SQLName: "accounts", Fields: []parse.FieldInfo{{Name: "AccountID", Type: "int64", Column: "account_id"}, {Name: "Code", Type: "string", Column: "code"}, {Name: "Metadata", Type: "*string", Column: "metadata"}, {Name: "Enabled", Type: "bool", Column: "enabled"}, {Name: "CreatedAt", Type: "time.Time", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(AccountRecord).Values(),
}

// String returns a string representation of this struct or record.
func (s AccountRecord) String() string {
	res := make([]string, 5)
	res[0] = "AccountID: " + reform.Inspect(s.AccountID, true)
	res[1] = "Code: " + reform.Inspect(s.Code, true)
	res[2] = "Metadata: " + reform.Inspect(s.Metadata, true)
	res[3] = "Enabled: " + reform.Inspect(s.Enabled, true)
	res[4] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *AccountRecord) Values() []interface{} {
	return []interface{}{
		s.AccountID,
		s.Code,
		s.Metadata,
		s.Enabled,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *AccountRecord) Pointers() []interface{} {
	return []interface{}{
		&s.AccountID,
		&s.Code,
		&s.Metadata,
		&s.Enabled,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *AccountRecord) View() reform.View {
	return AccountRecordTable
}

// Table returns Table object for that record.
func (s *AccountRecord) Table() reform.Table {
	return AccountRecordTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *AccountRecord) PKValue() interface{} {
	return s.AccountID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *AccountRecord) PKPointer() interface{} {
	return &s.AccountID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *AccountRecord) HasPK() bool {
	return s.AccountID != AccountRecordTable.z[AccountRecordTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *AccountRecord) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.AccountID = int64(i64)
	} else {
		s.AccountID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = AccountRecordTable
	_ reform.Struct = new(AccountRecord)
	_ reform.Table  = AccountRecordTable
	_ reform.Record = new(AccountRecord)
	_ fmt.Stringer  = new(AccountRecord)
)

func init() {
	parse.AssertUpToDate(&AccountRecordTable.s, new(AccountRecord))
}
