// Package denylist persists extra suspicious-tool names in sqlite.
package denylist

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Entry 一条黑名单记录
type Entry struct {
	Name      string
	Reason    string
	CreatedAt string
}

// Store 进程黑名单数据库
type Store struct {
	db *sql.DB
}

// Open 打开数据库并初始化表结构
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// name 为主键防止重复
	schema := `
	CREATE TABLE IF NOT EXISTS denylist (
		name TEXT PRIMARY KEY,
		reason TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Add 添加黑名单，已存在时忽略
func (s *Store) Add(name, reason string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty tool name")
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO denylist(name, reason) VALUES (?, ?)",
		name, reason,
	)
	if err != nil {
		return fmt.Errorf("insert %q failed: %w", name, err)
	}
	return nil
}

// Remove 删除一条记录
func (s *Store) Remove(name string) error {
	if _, err := s.db.Exec("DELETE FROM denylist WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete %q failed: %w", name, err)
	}
	return nil
}

// Entries 按添加顺序返回全部记录
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query("SELECT name, COALESCE(reason, ''), created_at FROM denylist ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query denylist failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Names 只返回名称，供监控模块匹配
func (s *Store) Names() ([]string, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
