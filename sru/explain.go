package sru

import (
	"go.uber.org/zap"
)

// ParseExplainResponse maps an explain response document onto an
// ExplainResponse. The explain schema appears under two namespace
// revisions in the wild, so the parser probes an ordered candidate list
// and settles on the first namespace whose serverInfo element is present,
// falling back to the first candidate. Passing candidates overrides the
// default probing order.
func ParseExplainResponse(data []byte, log *zap.Logger, candidates ...string) (*ExplainResponse, error) {
	doc, err := readResponse(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	if len(candidates) == 0 {
		candidates = DefaultExplainNamespaces()
	}
	ns := candidates[0]
	for _, candidate := range candidates {
		if firstDescendant(root, candidate, "serverInfo") != nil {
			ns = candidate
			break
		}
	}

	resp := &ExplainResponse{
		Server:   ServerInfo{Host: "unknown"},
		Database: DatabaseInfo{Title: "Unknown"},
		Indices:  []IndexInfo{},
		Schemas:  []SchemaInfo{},
	}

	if si := firstDescendant(root, ns, "serverInfo"); si != nil {
		if host := descendantText(si, ns, "host"); host != "" {
			resp.Server.Host = host
		}
		resp.Server.Port = intOptional(firstDescendant(si, ns, "port"), "port", log)
		resp.Server.Database = descendantText(si, ns, "database")
	}

	if db := firstDescendant(root, ns, "databaseInfo"); db != nil {
		if title := descendantText(db, ns, "title"); title != "" {
			resp.Database.Title = title
		}
		resp.Database.Description = descendantText(db, ns, "description")
		resp.Database.Contact = descendantText(db, ns, "contact")
	}

	for _, info := range descendants(root, ns, "indexInfo") {
		for _, index := range childElements(info, ns, "index") {
			title := firstDescendant(index, ns, "title")
			mapName := pathFirst(index, ns, "map", "name")
			if title == nil || mapName == nil {
				continue
			}

			// Real-world maps carry the short name plus a set attribute
			// ("set=pica name=tit") or the full CQL name in the text.
			name := mapName.Text()
			if set := mapName.SelectAttrValue("set", ""); set != "" {
				name = set + "." + name
			}

			indexTitle := title.Text()
			if indexTitle == "" {
				indexTitle = "Unknown"
			}
			resp.Indices = append(resp.Indices, IndexInfo{Title: indexTitle, Name: name})
		}
	}

	for _, info := range descendants(root, ns, "schemaInfo") {
		for _, schema := range childElements(info, ns, "schema") {
			identifier := schema.SelectAttrValue("identifier", "")
			if identifier == "" {
				identifier = schema.SelectAttrValue("name", "")
			}
			if identifier == "" {
				continue
			}
			name := schema.SelectAttrValue("name", "")
			if name == "" {
				name = identifier
			}
			resp.Schemas = append(resp.Schemas, SchemaInfo{
				Identifier: identifier,
				Name:       name,
				Title:      descendantText(schema, ns, "title"),
			})
		}
	}

	log.Debug("Parsed explain response",
		zap.Int("indices", len(resp.Indices)),
		zap.Int("schemas", len(resp.Schemas)))
	return resp, nil
}
