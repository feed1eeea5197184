package arangoq

import "strings"

// Connection locates one database of an ArangoDB server.
//
//	conn := arangoq.Connection{
//		Host:     "http://localhost:8529",
//		Database: "shop",
//		Context:  arangoq.Context{AppPrefix: "api"},
//	}
//	conn.CursorURL() // http://localhost:8529/_db/shop/_api/cursor
type Connection struct {
	Host     string
	Database string
	Context  Context
}

// NewConnection returns a connection without an application prefix.
func NewConnection(host, database string) Connection {
	return Connection{Host: host, Database: database}
}

// WithContext returns a copy of c using ctx.
func (c Connection) WithContext(ctx Context) Connection {
	c.Context = ctx
	return c
}

// CursorURL returns the endpoint queries are posted to.
func (c Connection) CursorURL() string {
	return c.endpoint("cursor")
}

// CollectionURL returns the collection management endpoint.
func (c Connection) CollectionURL() string {
	return c.endpoint("collection")
}

// CollectionName returns the name of a collection of this connection's
// application.
func (c Connection) CollectionName(local string) string {
	return c.Context.CollectionName(local)
}

func (c Connection) endpoint(api string) string {
	return strings.TrimSuffix(c.Host, "/") + "/_db/" + c.Database + "/_api/" + api
}

// Context holds the per-application settings shared by the collections
// of a database.
type Context struct {
	// AppPrefix namespaces the collections of one application when several
	// applications share a database.
	AppPrefix string
}

// CollectionName returns the final name of a collection.
//
//	Context{}.CollectionName("people")                 // people
//	Context{AppPrefix: "api"}.CollectionName("people") // api_people
func (c Context) CollectionName(local string) string {
	if c.AppPrefix == "" {
		return local
	}
	return c.AppPrefix + "_" + local
}
