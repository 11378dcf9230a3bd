// Package main: Repository katmanı başlatma.
//
// initRepositories, repository implementasyonlarını oluşturur.
// Her repository bir SQL.DB bağlantısı alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/akinalp/kbbsite/repository"
)

// Repositories, repository instance'larını tutan container struct.
type Repositories struct {
	Review repository.ReviewRepository
}

// initRepositories, veritabanı bağlantısından repository'leri oluşturur.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		Review: repository.NewSQLiteReviewRepo(conn),
	}
}
