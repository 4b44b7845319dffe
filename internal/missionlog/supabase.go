package missionlog

import (
	"context"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// DefaultTable is the Supabase table entries are inserted into.
const DefaultTable = "mission_log"

// inserter is the slice of the Supabase client a SupabaseSink uses.
type inserter interface {
	insert(table string, e Entry) error
}

type supabaseClient struct{ c *supa.Client }

func (s supabaseClient) insert(table string, e Entry) error {
	var rows []Entry
	_, err := s.c.From(table).Insert(e, false, "", "", "").ExecuteTo(&rows)
	return err
}

// SupabaseSink inserts entries as rows of a Supabase table.
type SupabaseSink struct {
	client inserter
	table  string
}

// NewSupabaseSink connects to the project at url with an API key.
func NewSupabaseSink(url, key, table string) (*SupabaseSink, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	c, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to supabase: %w", err)
	}
	if table == "" {
		table = DefaultTable
	}
	return &SupabaseSink{client: supabaseClient{c}, table: table}, nil
}

func (s *SupabaseSink) Append(ctx context.Context, e Entry) error {
	// The client has no context support; honor cancellation before the call.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.insert(s.table, e); err != nil {
		return fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return nil
}
