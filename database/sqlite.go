package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB — реализация Storage поверх SQLite.
type DB struct {
	conn *sql.DB
}

// Open открывает (или создаёт) базу по указанному пути и гарантирует
// наличие всех таблиц схемы.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close закрывает соединение с базой.
func (db *DB) Close() error {
	return db.conn.Close()
}

// createTables создаёт таблицы схемы, если их ещё нет. Каждая загрузка
// полностью замещает содержимое таблиц, поэтому миграций данных здесь нет.
func (db *DB) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS product_guide (
			id TEXT PRIMARY KEY,
			product TEXT NOT NULL,
			line_of_business TEXT,
			active_substance TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS available_stock (
			id TEXT PRIMARY KEY,
			nomenclature TEXT,
			party_sign TEXT,
			buying_season TEXT,
			division TEXT,
			line_of_business TEXT,
			available REAL,
			product TEXT REFERENCES product_guide(id)
		)`,
		`CREATE TABLE IF NOT EXISTS remains (
			id TEXT PRIMARY KEY,
			line_of_business TEXT NOT NULL,
			warehouse TEXT,
			parent_element TEXT,
			nomenclature TEXT,
			party_sign TEXT,
			buying_season TEXT,
			nomenclature_series TEXT,
			mtn TEXT,
			origin_country TEXT,
			germination TEXT,
			crop_year TEXT,
			quantity_per_pallet TEXT,
			active_substance TEXT,
			certificate TEXT,
			certificate_start_date TEXT,
			certificate_end_date TEXT,
			buh REAL,
			skl REAL,
			weight TEXT,
			product TEXT REFERENCES product_guide(id)
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			division TEXT,
			manager TEXT,
			company_group TEXT,
			client TEXT,
			contract_supplement TEXT,
			parent_element TEXT,
			manufacturer TEXT,
			active_ingredient TEXT,
			nomenclature TEXT,
			party_sign TEXT,
			buying_season TEXT,
			line_of_business TEXT,
			period TEXT,
			shipping_warehouse TEXT,
			document_status TEXT,
			delivery_status TEXT,
			shipping_address TEXT,
			transport TEXT,
			plan REAL,
			fact REAL,
			different REAL,
			product TEXT REFERENCES product_guide(id)
		)`,
		`CREATE TABLE IF NOT EXISTS payment (
			id TEXT PRIMARY KEY,
			contract_supplement TEXT,
			contract_type TEXT,
			prepayment_amount REAL,
			amount_of_credit REAL,
			prepayment_percentage REAL,
			loan_percentage REAL,
			planned_amount REAL,
			planned_amount_excluding_vat REAL,
			actual_sale_amount REAL,
			actual_payment_amount REAL
		)`,
		`CREATE TABLE IF NOT EXISTS moved_data (
			id TEXT PRIMARY KEY,
			"order" TEXT,
			date DATE,
			line_of_business TEXT,
			product TEXT,
			qt_order TEXT,
			qt_moved TEXT,
			party_sign TEXT,
			period TEXT,
			contract TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// DeleteAll удаляет все записи таблицы и возвращает их количество.
func (db *DB) DeleteAll(ctx context.Context, table string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, quoteIdent(table)))
	if err != nil {
		return 0, &WriteError{Table: table, Err: err}
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, &WriteError{Table: table, Err: err}
	}
	return removed, nil
}

// InsertBatch вставляет пачку записей одной транзакцией, сохраняя порядок.
// Набор колонок берётся из первой записи; порядок колонок детерминирован.
func (db *DB) InsertBatch(ctx context.Context, table string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		placeholders[i] = "?"
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Table: table, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return &WriteError{Table: table, Err: err}
	}
	defer stmt.Close()

	for _, row := range rows {
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = row[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return &WriteError{Table: table, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Table: table, Err: err}
	}
	return nil
}

// Query возвращает записи таблицы, совпадающие по всем парам
// колонка=значение предиката. Пустой предикат возвращает всю таблицу.
func (db *DB) Query(ctx context.Context, table string, where map[string]any) ([]map[string]any, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(table))

	var args []any
	if len(where) > 0 {
		cols := make([]string, 0, len(where))
		for col := range where {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		conditions := make([]string, len(cols))
		for i, col := range cols {
			conditions[i] = quoteIdent(col) + " = ?"
			args = append(args, where[col])
		}
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", table, err)
	}
	return result, nil
}

// quoteIdent экранирует идентификатор SQL. Имя колонки "order" в журнале
// перемещений совпадает с ключевым словом.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
