package mesh

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"genelit/api/models/constants"
	meshCategory "genelit/api/models/constants/mesh-category"
	"genelit/api/utils"
	"genelit/api/utils/tables"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const descriptorsTable = "mesh_descriptors"

const schema = `CREATE TABLE IF NOT EXISTS mesh_descriptors (
	ui           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	tree_numbers TEXT NOT NULL DEFAULT ''
)`

var descriptorColumns = []string{"DescriptorUI", "DescriptorName", "TreeNumbers"}

type (
	Descriptor struct {
		UI          string   `json:"ui"`
		Name        string   `json:"name"`
		TreeNumbers []string `json:"treeNumbers"`
	}

	// Store is the MeSH descriptor catalog used to name and classify
	// disease identifiers.
	Store struct {
		db *sql.DB
		sb sq.StatementBuilderType
	}
)

func (d Descriptor) Category() constants.MeshCategory {
	return meshCategory.FromTreeNumbers(d.TreeNumbers)
}

// Open opens (creating if needed) the catalog at path. ":memory:" gives
// a private in-memory catalog.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NormalizeDescriptorId strips the "MESH:" namespace used by annotation
// services, leaving the bare descriptor UI.
func NormalizeDescriptorId(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 5 && strings.EqualFold(id[:5], "mesh:") {
		id = id[5:]
	}
	return id
}

func (s *Store) Upsert(ctx context.Context, descriptors []Descriptor) error {
	if len(descriptors) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range descriptors {
		query, args, err := s.sb.Insert(descriptorsTable).
			Columns("ui", "name", "tree_numbers").
			Values(NormalizeDescriptorId(d.UI), d.Name, strings.Join(d.TreeNumbers, "|")).
			Suffix("ON CONFLICT(ui) DO UPDATE SET name = excluded.name, tree_numbers = excluded.tree_numbers").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upserting descriptor %s: %w", d.UI, err)
		}
	}
	return tx.Commit()
}

// LoadDescriptors imports a DescriptorUI/DescriptorName/TreeNumbers table.
func (s *Store) LoadDescriptors(ctx context.Context, path string) (int, error) {
	df, err := tables.ReadFile(path)
	if err != nil {
		return 0, err
	}
	cols, err := tables.Columns(df, descriptorColumns...)
	if err != nil {
		return 0, err
	}

	descriptors := make([]Descriptor, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		ui := strings.TrimSpace(tables.Cell(cols[0], i))
		if ui == "" {
			continue
		}
		descriptors = append(descriptors, Descriptor{
			UI:          ui,
			Name:        strings.TrimSpace(tables.Cell(cols[1], i)),
			TreeNumbers: splitTreeNumbers(tables.Cell(cols[2], i)),
		})
	}

	if err := s.Upsert(ctx, descriptors); err != nil {
		return 0, err
	}
	return len(descriptors), nil
}

// Lookup returns the known descriptors among ids, keyed by the id as given.
func (s *Store) Lookup(ctx context.Context, ids []string) (map[string]Descriptor, error) {
	found := map[string]Descriptor{}
	if len(ids) == 0 {
		return found, nil
	}

	byUI := map[string][]string{}
	uis := make([]string, 0, len(ids))
	for _, id := range ids {
		ui := NormalizeDescriptorId(id)
		if ui == "" {
			continue
		}
		if _, ok := byUI[ui]; !ok {
			uis = append(uis, ui)
		}
		byUI[ui] = append(byUI[ui], id)
	}
	if len(uis) == 0 {
		return found, nil
	}

	query, args, err := s.sb.Select("ui", "name", "tree_numbers").
		From(descriptorsTable).
		Where(sq.Eq{"ui": uis}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d Descriptor
		var treeNumbers string
		if err := rows.Scan(&d.UI, &d.Name, &treeNumbers); err != nil {
			return nil, err
		}
		d.TreeNumbers = splitTreeNumbers(treeNumbers)
		for _, id := range byUI[d.UI] {
			found[id] = d
		}
	}
	return found, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").From(descriptorsTable).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

var treeNumberSeparators = strings.NewReplacer(";", "|", ",", "|")

func splitTreeNumbers(raw string) []string {
	return utils.SplitList(treeNumberSeparators.Replace(raw), "|")
}
