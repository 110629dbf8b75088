package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/ajira/core"
)

// Roles
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleMentor    = "mentor"
	RoleAdmin     = "admin"
)

// Badges
const (
	BadgePerfectScore = "Perfect Score"
	BadgeQuizMaster   = "Quiz Master"
	BadgeRisingStar   = "Rising Star"
	BadgeInterviewAce = "Interview Ace"
)

var (
	AllRoles = []string{RoleAdmin, RoleMentor, RoleRecruiter, RoleStudent} // sorted

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Recruiter", Value: RoleRecruiter},
		{Name: "Mentor", Value: RoleMentor},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Tags         []string  `json:"tags"`
	Skills       []string  `json:"skills"`
	Interests    []string  `json:"interests"`
	CareerGoal   string    `json:"career_goal"`
	Points       int       `json:"points"`
	Badges       []string  `json:"badges"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool   { return u.Role == RoleStudent }
func (u *User) IsRecruiter() bool { return u.Role == RoleRecruiter }
func (u *User) IsMentor() bool    { return u.Role == RoleMentor }
func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }

func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AllTags merges Tags, Skills and Interests for content matching.
func (u *User) AllTags() []string {
	all := make([]string, 0, len(u.Tags)+len(u.Skills)+len(u.Interests))
	all = append(all, u.Tags...)
	all = append(all, u.Skills...)
	all = append(all, u.Interests...)
	return all
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,role"`
	Tags            string `json:"tags"` // comma separated; students only
}

func (nu *NewUser) Validate(validate *validator.Validate, svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nu.Email)
}

// UpdateProfile defines what profile information a User may change on themselves.
type UpdateProfile struct {
	Tags       string `json:"tags"`
	Skills     string `json:"skills"`
	Interests  string `json:"interests"`
	CareerGoal string `json:"career_goal"`
}

func (up *UpdateProfile) IsEmpty() bool {
	return up.Tags == "" && up.Skills == "" && up.Interests == "" && up.CareerGoal == ""
}

func (up *UpdateProfile) Clean() {
	up.Tags = core.CleanString(up.Tags)
	up.Skills = core.CleanString(up.Skills)
	up.Interests = core.CleanString(up.Interests)
	up.CareerGoal = core.CleanString(up.CareerGoal)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Role        string    `query:"role"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}

func roleIsValid(role string) bool {
	role = strings.ToLower(role)
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
