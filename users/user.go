package users

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type User struct {
	gorm.Model
	Username string `gorm:"unique"`
	Password string
}

func Create(db *gorm.DB, username, password string) (User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{Username: username, Password: string(hashedPassword)}
	if err := db.Create(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate returns the user when password matches. Unknown users and
// wrong passwords are both ErrInvalidCredentials.
func Authenticate(db *gorm.DB, username, password string) (User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the "admin" account if it does not exist yet
func EnsureAdmin(db *gorm.DB, password func() (string, error)) error {
	var user User
	err := db.Where("username = ?", "admin").First(&user).Error
	if err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pw, err := password()
	if err != nil {
		return err
	}
	_, err = Create(db, "admin", pw)
	return err
}
