package model

import (
	"github.com/google/uuid"
)

// MetadataKey is the reserved document field carrying ownership information.
const MetadataKey = "metadata"

// Document is the user facing document type, represents a JSON object.
//
//	"id" field is reserved for the document identifier.
//	"metadata" field is reserved for the ownership sub-document.
type Document map[string]interface{}

// Metadata is the ownership sub-document attached to every content-bearing
// entity. It drives access control: User is the owner, Groups are the groups
// the entity is shared with.
type Metadata struct {
	User   string
	Groups []string
}

func (doc Document) GetID() string {
	if id, ok := doc["id"].(string); ok {
		return id
	}
	return ""
}

func (doc Document) SetID(newID string) {
	doc["id"] = newID
}

func (doc Document) GenerateIDIfEmpty() {
	if doc.GetID() == "" {
		doc["id"] = uuid.New().String()
	}
}

func (doc Document) HasKey(key string) bool {
	_, exists := doc[key]
	return exists
}

// Meta extracts the ownership sub-document. Group lists decoded from BSON
// arrive as []interface{}, so both shapes are tolerated.
func (doc Document) Meta() Metadata {
	raw, ok := doc[MetadataKey].(map[string]interface{})
	if !ok {
		return Metadata{}
	}

	md := Metadata{}
	if user, ok := raw["user"].(string); ok {
		md.User = user
	}
	switch groups := raw["groups"].(type) {
	case []string:
		md.Groups = append(md.Groups, groups...)
	case []interface{}:
		for _, g := range groups {
			if s, ok := g.(string); ok {
				md.Groups = append(md.Groups, s)
			}
		}
	}
	return md
}

// SetMeta stamps the ownership sub-document, replacing any caller-supplied
// metadata wholesale.
func (doc Document) SetMeta(md Metadata) {
	groups := md.Groups
	if groups == nil {
		groups = []string{}
	}
	doc[MetadataKey] = map[string]interface{}{
		"user":   md.User,
		"groups": groups,
	}
}

// Lookup resolves a dotted path ("metadata.user") against the document.
func (doc Document) Lookup(path string) (interface{}, bool) {
	current := map[string]interface{}(doc)
	for {
		idx := indexDot(path)
		if idx < 0 {
			v, ok := current[path]
			return v, ok
		}
		next, ok := current[path[:idx]].(map[string]interface{})
		if !ok {
			return nil, false
		}
		current = next
		path = path[idx+1:]
	}
}

func indexDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
