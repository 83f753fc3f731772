package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"typelens/internal/model"
	"typelens/internal/typeref"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			qualified_name TEXT PRIMARY KEY,
			symbol_id TEXT,
			package TEXT,
			name TEXT,
			kind TEXT,
			filepath TEXT,
			start_line INTEGER,
			end_line INTEGER,
			type_params JSON,
			superclass JSON,
			interfaces JSON
		);`,
		`CREATE TABLE IF NOT EXISTS methods (
			symbol_id TEXT PRIMARY KEY,
			class_qualified_name TEXT,
			name TEXT,
			type_params JSON,
			params JSON,
			return_type JSON,
			start_line INTEGER,
			end_line INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_classes_file ON classes(filepath);`,
		`CREATE INDEX IF NOT EXISTS idx_methods_class ON methods(class_qualified_name);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const upsertClassSQL = `
	INSERT INTO classes (qualified_name, symbol_id, package, name, kind, filepath, start_line, end_line, type_params, superclass, interfaces)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(qualified_name) DO UPDATE SET
		symbol_id=excluded.symbol_id,
		package=excluded.package,
		name=excluded.name,
		kind=excluded.kind,
		filepath=excluded.filepath,
		start_line=excluded.start_line,
		end_line=excluded.end_line,
		type_params=excluded.type_params,
		superclass=excluded.superclass,
		interfaces=excluded.interfaces
`

const upsertMethodSQL = `
	INSERT INTO methods (symbol_id, class_qualified_name, name, type_params, params, return_type, start_line, end_line)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(symbol_id) DO UPDATE SET
		class_qualified_name=excluded.class_qualified_name,
		name=excluded.name,
		type_params=excluded.type_params,
		params=excluded.params,
		return_type=excluded.return_type,
		start_line=excluded.start_line,
		end_line=excluded.end_line
`

// SaveClass upserts a single declaration and its methods.
func (s *SQLiteStore) SaveClass(ctx context.Context, decl *model.ClassDecl) error {
	row, err := classRowOf(decl)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertClassSQL, row...); err != nil {
		return err
	}
	for _, m := range decl.Methods {
		mrow, err := methodRowOf(decl, m)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, upsertMethodSQL, mrow...); err != nil {
			return err
		}
	}
	return nil
}

// SaveRegistry persists the whole registry as a snapshot: stale rows from
// previous scans are removed so load mirrors the current declarations.
func (s *SQLiteStore) SaveRegistry(ctx context.Context, reg *model.Registry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM methods"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM classes"); err != nil {
		return err
	}

	classStmt, err := tx.PrepareContext(ctx, upsertClassSQL)
	if err != nil {
		return err
	}
	defer classStmt.Close()

	methodStmt, err := tx.PrepareContext(ctx, upsertMethodSQL)
	if err != nil {
		return err
	}
	defer methodStmt.Close()

	for _, decl := range reg.Classes {
		row, err := classRowOf(decl)
		if err != nil {
			return err
		}
		if _, err := classStmt.Exec(row...); err != nil {
			return err
		}
		for _, m := range decl.Methods {
			mrow, err := methodRowOf(decl, m)
			if err != nil {
				return err
			}
			if _, err := methodStmt.Exec(mrow...); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

const selectClassColumns = "qualified_name, package, name, kind, filepath, start_line, end_line, type_params, superclass, interfaces"

// LoadRegistry rebuilds the registry from the database.
func (s *SQLiteStore) LoadRegistry(ctx context.Context) (*model.Registry, error) {
	reg := model.NewRegistry()

	rows, err := s.db.QueryContext(ctx, "SELECT "+selectClassColumns+" FROM classes")
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	byQualifiedName := make(map[string]*model.ClassDecl)
	for rows.Next() {
		qualified, decl, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		byQualifiedName[qualified] = decl
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	methodRows, err := s.db.QueryContext(ctx, "SELECT class_qualified_name, name, type_params, params, return_type, start_line, end_line FROM methods")
	if err != nil {
		return nil, fmt.Errorf("failed to query methods: %w", err)
	}
	defer methodRows.Close()

	for methodRows.Next() {
		var classKey string
		var m model.MethodDecl
		var typeParams, params, returnType []byte
		if err := methodRows.Scan(&classKey, &m.Name, &typeParams, &params, &returnType, &m.StartLine, &m.EndLine); err != nil {
			return nil, fmt.Errorf("failed to scan method: %w", err)
		}

		decl, ok := byQualifiedName[classKey]
		if !ok {
			continue
		}
		m.ClassName = decl.Name

		if m.TypeParams, err = decodeTypeParams(typeParams); err != nil {
			return nil, err
		}
		if m.Params, err = decodeRefList(params); err != nil {
			return nil, err
		}
		if m.Return, err = decodeRef(returnType); err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, &m)
	}
	if err := methodRows.Err(); err != nil {
		return nil, err
	}

	for _, decl := range byQualifiedName {
		reg.AddClass(decl)
	}
	return reg, nil
}

// FindClassesByFile retrieves declarations extracted from a file.
func (s *SQLiteStore) FindClassesByFile(ctx context.Context, filepath string) ([]*model.ClassDecl, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectClassColumns+" FROM classes WHERE filepath = ?", filepath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decls []*model.ClassDecl
	for rows.Next() {
		_, decl, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, rows.Err()
}

// --- row encoding ---

func classRowOf(decl *model.ClassDecl) ([]interface{}, error) {
	typeParams, err := encodeTypeParams(decl.TypeParams)
	if err != nil {
		return nil, err
	}
	superclass, err := encodeRef(decl.Superclass)
	if err != nil {
		return nil, err
	}
	interfaces, err := encodeRefList(decl.Interfaces)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		decl.QualifiedName(),
		model.BuildStableSymbolID(decl),
		decl.Package,
		decl.Name,
		string(decl.Kind),
		decl.Filepath,
		decl.StartLine,
		decl.EndLine,
		typeParams,
		superclass,
		interfaces,
	}, nil
}

func methodRowOf(decl *model.ClassDecl, m *model.MethodDecl) ([]interface{}, error) {
	typeParams, err := encodeTypeParams(m.TypeParams)
	if err != nil {
		return nil, err
	}
	params, err := encodeRefList(m.Params)
	if err != nil {
		return nil, err
	}
	returnType, err := encodeRef(m.Return)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		model.BuildStableMethodID(m),
		decl.QualifiedName(),
		m.Name,
		typeParams,
		params,
		returnType,
		m.StartLine,
		m.EndLine,
	}, nil
}

func scanClass(rows *sql.Rows) (string, *model.ClassDecl, error) {
	var qualified, kind string
	var decl model.ClassDecl
	var typeParams, superclass, interfaces []byte

	if err := rows.Scan(&qualified, &decl.Package, &decl.Name, &kind, &decl.Filepath, &decl.StartLine, &decl.EndLine, &typeParams, &superclass, &interfaces); err != nil {
		return "", nil, fmt.Errorf("failed to scan class: %w", err)
	}
	decl.Kind = model.DeclKind(kind)

	var err error
	if decl.TypeParams, err = decodeTypeParams(typeParams); err != nil {
		return "", nil, err
	}
	if decl.Superclass, err = decodeRef(superclass); err != nil {
		return "", nil, err
	}
	if decl.Interfaces, err = decodeRefList(interfaces); err != nil {
		return "", nil, err
	}
	return qualified, &decl, nil
}

type typeParamRow struct {
	Name  string          `json:"name"`
	Bound json.RawMessage `json:"bound,omitempty"`
}

func encodeTypeParams(params []model.TypeParam) ([]byte, error) {
	rows := make([]typeParamRow, 0, len(params))
	for _, tp := range params {
		row := typeParamRow{Name: tp.Name}
		if tp.Bound != nil {
			raw, err := typeref.MarshalRef(tp.Bound)
			if err != nil {
				return nil, err
			}
			row.Bound = raw
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}

func decodeTypeParams(data []byte) ([]model.TypeParam, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []typeParamRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode type params: %w", err)
	}
	var out []model.TypeParam
	for _, row := range rows {
		tp := model.TypeParam{Name: row.Name}
		if len(row.Bound) > 0 {
			bound, err := typeref.UnmarshalRef(row.Bound)
			if err != nil {
				return nil, err
			}
			tp.Bound = bound
		}
		out = append(out, tp)
	}
	return out, nil
}

func encodeRef(r typeref.Ref) ([]byte, error) {
	return typeref.MarshalRef(r)
}

func decodeRef(data []byte) (typeref.Ref, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return typeref.UnmarshalRef(data)
}

func encodeRefList(refs []typeref.Ref) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(refs))
	for _, r := range refs {
		raw, err := typeref.MarshalRef(r)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}

func decodeRefList(data []byte) ([]typeref.Ref, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode ref list: %w", err)
	}
	var out []typeref.Ref
	for _, raw := range raws {
		r, err := typeref.UnmarshalRef(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
