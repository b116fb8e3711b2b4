// Package main seeds the first employee account. Employees are never
// created through the public registration endpoint.
package main

import (
	"os"

	"payva/internal/config"
	"payva/internal/models"
	"payva/internal/repositories"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	email := os.Getenv("EMPLOYEE_EMAIL")
	password := os.Getenv("EMPLOYEE_PASSWORD")
	phone := os.Getenv("EMPLOYEE_PHONE")
	if email == "" || password == "" || phone == "" {
		logrus.Fatal("EMPLOYEE_EMAIL, EMPLOYEE_PASSWORD and EMPLOYEE_PHONE must be set")
	}

	if err := repositories.InitDB(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize databases")
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		logrus.WithField("email", email).Info("employee account already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}

	employee := models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: os.Getenv("EMPLOYEE_FIRST_NAME"),
		LastName:  os.Getenv("EMPLOYEE_LAST_NAME"),
		Phone:     phone,
		Employee:  true,
	}
	if err := repositories.DB.Create(&employee).Error; err != nil {
		logrus.WithError(err).Fatal("failed to create employee account")
	}

	logrus.WithField("email", email).Info("employee account created")
}
