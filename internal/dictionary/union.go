package dictionary

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"
)

// commonAttributeHints are substring-matched against field paths to pick
// the common-attribute subset of the union profile schema.
var commonAttributeHints = []string{
	"email",
	"firstname",
	"lastname",
	"phone",
	"address",
	"city",
	"country",
	"birth",
	"gender",
	"createdat",
	"modifiedat",
}

const maxCommonAttributes = 20

// UnionProfile returns the flattened union profile schema, using the same
// two-tier cache discipline as Generate but with an independent timer and
// file.
func (s *Service) UnionProfile(ctx context.Context, forceRefresh bool) (*UnionProfileSchema, error) {
	if !forceRefresh {
		if u := s.cachedUnion(); u != nil {
			return u, nil
		}
		if u := s.unionFromFile(); u != nil {
			return u, nil
		}
	}

	v, err, _ := s.group.Do("union-profile", func() (interface{}, error) {
		schema := s.buildUnionProfile(ctx)

		s.mu.Lock()
		s.union = schema
		s.unionBuiltAt = s.now()
		s.mu.Unlock()

		s.writeUnionFile(schema)
		return schema, nil
	})
	if err != nil {
		return nil, err
	}

	return taggedUnion(v.(*UnionProfileSchema), false), nil
}

// buildUnionProfile crawls the union index, picks the profile union, and
// flattens it. Like the dictionary builder it never fails: problems
// produce an empty artifact with an error string.
func (s *Service) buildUnionProfile(ctx context.Context) *UnionProfileSchema {
	empty := func(reason string) *UnionProfileSchema {
		return &UnionProfileSchema{
			ExtractedAt:      s.now(),
			Fields:           []UnionField{},
			CommonAttributes: []UnionField{},
			Error:            reason,
		}
	}

	unions, err := s.fetchUnionIndex(ctx)
	if len(unions) == 0 {
		if err != nil {
			return empty("union index crawl failed: " + err.Error())
		}
		return empty("no union schemas found")
	}

	// First union whose title or id mentions "profile", else the first
	// union overall.
	selected := unions[0]
	for _, u := range unions {
		if strings.Contains(strings.ToLower(u.Title), "profile") ||
			strings.Contains(strings.ToLower(u.ID), "profile") {
			selected = u
			break
		}
	}

	detail, err := s.source.GetUnion(ctx, selected.ID)
	if err != nil {
		log.Printf("dictionary: fetching union schema %s: %v", selected.ID, err)
		return empty("fetching union schema: " + err.Error())
	}

	name := detail.Title
	if name == "" {
		name = detail.ID
	}

	var fields []UnionField
	flattenUnionProperties(detail.Properties, "", name, 0, s.cfg.MaxDepth, &fields)
	for _, branch := range detail.AllOf {
		flattenUnionProperties(branch.Properties, "", name, 0, s.cfg.MaxDepth, &fields)
	}
	if fields == nil {
		fields = []UnionField{}
	}

	return &UnionProfileSchema{
		ExtractedAt:      s.now(),
		ProfileTitle:     name,
		TotalFields:      len(fields),
		Fields:           fields,
		CommonAttributes: pickCommonAttributes(fields),
	}
}

// pickCommonAttributes selects up to maxCommonAttributes fields whose path
// contains one of the attribute-name hints.
func pickCommonAttributes(fields []UnionField) []UnionField {
	out := []UnionField{}
	for _, f := range fields {
		if len(out) >= maxCommonAttributes {
			break
		}
		lower := strings.ToLower(f.Path)
		for _, hint := range commonAttributeHints {
			if strings.Contains(lower, hint) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func (s *Service) cachedUnion() *UnionProfileSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.union == nil || s.now().Sub(s.unionBuiltAt) >= s.cfg.UnionTTL {
		return nil
	}
	return taggedUnion(s.union, true)
}

func (s *Service) unionFromFile() *UnionProfileSchema {
	if s.cfg.Files == nil {
		return nil
	}
	data, err := s.cfg.Files.Read(unionCacheFile)
	if err != nil {
		return nil
	}

	var env unionEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Schema == nil || env.Timestamp == 0 {
		return nil
	}

	builtAt := time.UnixMilli(env.Timestamp)
	if s.now().Sub(builtAt) >= s.cfg.UnionTTL {
		return nil
	}

	s.mu.Lock()
	s.union = env.Schema
	s.unionBuiltAt = builtAt
	s.mu.Unlock()

	return taggedUnion(env.Schema, true)
}

func (s *Service) writeUnionFile(schema *UnionProfileSchema) {
	if s.cfg.Files == nil {
		return
	}
	env := unionEnvelope{
		Timestamp: s.now().UnixMilli(),
		Schema:    schema,
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("dictionary: marshalling union cache file: %v", err)
		return
	}
	if err := s.cfg.Files.Write(unionCacheFile, data); err != nil {
		log.Printf("dictionary: writing union cache file: %v", err)
	}
}

func taggedUnion(schema *UnionProfileSchema, cached bool) *UnionProfileSchema {
	out := *schema
	out.Cached = cached
	return &out
}
