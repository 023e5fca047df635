// Package record defines the user record shape and the paginated source contract shared by
// the search service, the HTTP client and the dropdown.
package record

import "context"

// Record is a selectable user entry as stored and sent over the wire
type Record struct {
	ID      string `json:"_id" msgpack:"_id"`
	Name    string `json:"name" msgpack:"name"`
	Surname string `json:"surname" msgpack:"surname"`
	Info    string `json:"info" msgpack:"info"`
	Avatar  string `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
	Domain  string `json:"domain,omitempty" msgpack:"domain,omitempty"`
}

// FullName returns "name surname" with missing parts dropped
func (r Record) FullName() string {
	switch {
	case r.Name == "":
		return r.Surname
	case r.Surname == "":
		return r.Name
	}
	return r.Name + " " + r.Surname
}

// PageRequest asks a source for one ranked page
type PageRequest struct {
	Search string
	Offset int
	Count  int
}

// Page is one ranked slice of matching records.
// TotalCount is the number of matches, not the size of the store.
type Page struct {
	TotalCount          int      `json:"totalCount" msgpack:"totalCount"`
	Offset              int      `json:"offset" msgpack:"offset"`
	Count               int      `json:"count" msgpack:"count"`
	SearchExecutionTime string   `json:"searchExecutionTime" msgpack:"searchExecutionTime"`
	Data                []Record `json:"data" msgpack:"data"`
}

// DataSource serves ranked pages of records
type DataSource interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}

// SourceFunc adapts a plain function to DataSource
type SourceFunc func(ctx context.Context, req PageRequest) (Page, error)

// FetchPage calls f
func (f SourceFunc) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	return f(ctx, req)
}

// KeyFunc extracts the identity of a record
type KeyFunc func(Record) string

// DisplayFunc extracts the token label of a record
type DisplayFunc func(Record) string

// ByID is the default key function
func ByID(r Record) string { return r.ID }
