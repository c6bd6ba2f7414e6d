package models

import (
	"time"

	"github.com/harentsoaR/hospital-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RolePatient Role = "Patient"
	RoleAdmin   Role = "Admin"
	RoleDoctor  Role = "Doctor"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// DocAvatar points at a doctor's profile image on the avatar store.
type DocAvatar struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone" json:"phone"`
	NIC              string             `bson:"nic" json:"nic"`
	DOB              time.Time          `bson:"dob" json:"dob"`
	Gender           Gender             `bson:"gender" json:"gender"`
	Password         string             `bson:"password,omitempty" json:"-"` // bcrypt hash, only loaded on request
	Role             Role               `bson:"role" json:"role"`
	DoctorDepartment string             `bson:"doctorDepartment,omitempty" json:"doctorDepartment,omitempty"`
	DocAvatar        *DocAvatar         `bson:"docAvatar,omitempty" json:"docAvatar,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// ComparePassword reports whether plain matches the stored hash.
// The hash must have been loaded explicitly; an empty hash never matches.
func (u *User) ComparePassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return utils.CheckPasswordHash(plain, u.Password)
}
