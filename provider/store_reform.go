package provider

// generated with gopkg.in/reform.v1

import (
	"fmt"
	"strings"

	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/parse"
)

type extOrderTableType struct {
	s parse.StructInfo
	z []interface{}
}

// Schema returns a schema name in SQL database ("payments").
func (v *extOrderTableType) Schema() string {
	return v.s.SQLSchema
}

// Name returns a view or table name in SQL database ("ext_orders").
func (v *extOrderTableType) Name() string {
	return v.s.SQLName
}

// Columns returns a new slice of column names for that view or table in SQL database.
func (v *extOrderTableType) Columns() []string {
	return []string{"ext_order_id", "run_id", "account_code", "payment_system_name", "order_number", "success", "error_message", "raw_response", "created_at"}
}

// NewStruct makes a new struct for that view or table.
func (v *extOrderTableType) NewStruct() reform.Struct {
	return new(ExtOrder)
}

// NewRecord makes a new record for that table.
func (v *extOrderTableType) NewRecord() reform.Record {
	return new(ExtOrder)
}

// PKColumnIndex returns an index of primary key column for that table in SQL database.
func (v *extOrderTableType) PKColumnIndex() uint {
	return uint(v.s.PKFieldIndex)
}

// ExtOrderTable represents ext_orders view or table in SQL database.
var ExtOrderTable = &extOrderTableType{
	s: parse.StructInfo{Type: "ExtOrder", SQLSchema: "payments", SQLName: "ext_orders", Fields: []parse.FieldInfo{{Name: "ExtOrderID", Type: "int64", Column: "ext_order_id"}, {Name: "RunID", Type: "string", Column: "run_id"}, {Name: "AccountCode", Type: "string", Column: "account_code"}, {Name: "PaymentSystemName", Type: "Provider", Column: "payment_system_name"}, {Name: "OrderNumber", Type: "*string", Column: "order_number"}, {Name: "Success", Type: "bool", Column: "success"}, {Name: "ErrorMessage", Type: "*string", Column: "error_message"}, {Name: "RawResponse", Type: "*string", Column: "raw_response"}, {Name: "CreatedAt", Type: "time.Time", Column: "created_at"}}, PKFieldIndex: 0},
	z: new(ExtOrder).Values(),
}

// String returns a string representation of this struct or record.
func (s ExtOrder) String() string {
	res := make([]string, 9)
	res[0] = "ExtOrderID: " + reform.Inspect(s.ExtOrderID, true)
	res[1] = "RunID: " + reform.Inspect(s.RunID, true)
	res[2] = "AccountCode: " + reform.Inspect(s.AccountCode, true)
	res[3] = "PaymentSystemName: " + reform.Inspect(s.PaymentSystemName, true)
	res[4] = "OrderNumber: " + reform.Inspect(s.OrderNumber, true)
	res[5] = "Success: " + reform.Inspect(s.Success, true)
	res[6] = "ErrorMessage: " + reform.Inspect(s.ErrorMessage, true)
	res[7] = "RawResponse: " + reform.Inspect(s.RawResponse, true)
	res[8] = "CreatedAt: " + reform.Inspect(s.CreatedAt, true)
	return strings.Join(res, ", ")
}

// Values returns a slice of struct or record field values.
// Returned interface{} values are never untyped nils.
func (s *ExtOrder) Values() []interface{} {
	return []interface{}{
		s.ExtOrderID,
		s.RunID,
		s.AccountCode,
		s.PaymentSystemName,
		s.OrderNumber,
		s.Success,
		s.ErrorMessage,
		s.RawResponse,
		s.CreatedAt,
	}
}

// Pointers returns a slice of pointers to struct or record fields.
// Returned interface{} values are never untyped nils.
func (s *ExtOrder) Pointers() []interface{} {
	return []interface{}{
		&s.ExtOrderID,
		&s.RunID,
		&s.AccountCode,
		&s.PaymentSystemName,
		&s.OrderNumber,
		&s.Success,
		&s.ErrorMessage,
		&s.RawResponse,
		&s.CreatedAt,
	}
}

// View returns View object for that struct.
func (s *ExtOrder) View() reform.View {
	return ExtOrderTable
}

// Table returns Table object for that record.
func (s *ExtOrder) Table() reform.Table {
	return ExtOrderTable
}

// PKValue returns a value of primary key for that record.
// Returned interface{} value is never untyped nil.
func (s *ExtOrder) PKValue() interface{} {
	return s.ExtOrderID
}

// PKPointer returns a pointer to primary key field for that record.
// Returned interface{} value is never untyped nil.
func (s *ExtOrder) PKPointer() interface{} {
	return &s.ExtOrderID
}

// HasPK returns true if record has non-zero primary key set, false otherwise.
func (s *ExtOrder) HasPK() bool {
	return s.ExtOrderID != ExtOrderTable.z[ExtOrderTable.s.PKFieldIndex]
}

// SetPK sets record primary key.
func (s *ExtOrder) SetPK(pk interface{}) {
	if i64, ok := pk.(int64); ok {
		s.ExtOrderID = int64(i64)
	} else {
		s.ExtOrderID = pk.(int64)
	}
}

// check interfaces
var (
	_ reform.View   = ExtOrderTable
	_ reform.Struct = new(ExtOrder)
	_ reform.Table  = ExtOrderTable
	_ reform.Record = new(ExtOrder)
	_ fmt.Stringer  = new(ExtOrder)
)

func init() {
	parse.AssertUpToDate(&ExtOrderTable.s, new(ExtOrder))
}
