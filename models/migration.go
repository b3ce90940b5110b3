package models

import (
	"log"

	"bitbucket.org/mmdatafocus/garments_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Product{},
		&Order{},
		&Client{},
		&RepPrice{},
		&User{},
		&AppConfig{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
