package user

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/trezcool/ajira/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(user User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...string) error
	}

	Service interface {
		CheckEmailUniqueness(email string, exclUsers ...User) error
		Register(nu NewUser) (User, error)
		Create(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		Filter(filter QueryFilter) ([]User, error)
		SetLastLogin(usr User) (User, error)
		UpdateProfile(usr User, up UpdateProfile) (User, error)
		AwardBadges(usr User, points int, badges ...string) (User, error)
		Leaderboard() ([]User, error)
		LeaderboardRank(usr User) (int, error)
		RequestPasswordReset(email string) error
		ResetPassword(rp ResetUserPassword) error
		Delete(ids ...string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckEmailUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register creates a self-served account and sends a welcome email.
// Registration does not authenticate the new account.
func (svc *service) Register(nu NewUser) (User, error) {
	usr, err := svc.Create(nu)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.Role == RoleStudent && nu.Tags != "" {
		usr.Tags = core.SplitTags(nu.Tags)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

func (svc *service) UpdateProfile(usr User, up UpdateProfile) (User, error) {
	if up.Tags != "" {
		usr.Tags = core.SplitTags(up.Tags)
	}
	if up.Skills != "" {
		usr.Skills = core.SplitTags(up.Skills)
	}
	if up.Interests != "" {
		usr.Interests = core.SplitTags(up.Interests)
	}
	if up.CareerGoal != "" {
		usr.CareerGoal = core.CleanString(up.CareerGoal)
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

// AwardBadges adds points and any badges not yet earned.
func (svc *service) AwardBadges(usr User, points int, badges ...string) (User, error) {
	usr.Points += points
	for _, badge := range badges {
		if !usr.HasBadge(badge) {
			usr.Badges = append(usr.Badges, badge)
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr, nil)
}

// Leaderboard returns active students ordered by points, descending.
func (svc *service) Leaderboard() ([]User, error) {
	active := true
	students, err := svc.repo.FilterUsers(QueryFilter{Role: RoleStudent, IsActive: &active})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].Points > students[j].Points })
	return students, nil
}

func (svc *service) LeaderboardRank(usr User) (int, error) {
	students, err := svc.Leaderboard()
	if err != nil {
		return 0, err
	}
	for i, s := range students {
		if s.ID == usr.ID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (svc *service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) ResetPassword(rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return err
	}
	if err = verifyToken(usr, rp.Token, svc.conf); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(usr, nil)
	return err
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(ids...)
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct{ Name, Role string }{usr.Name, usr.Role},
	})
}

func (svc *service) sendPasswordResetMail(usr User) {
	token, err := MakeToken(usr, svc.conf)
	if err != nil {
		// token generation never fails with a sane secret; drop the mail
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Password reset on %s", svc.conf.AppName),
		TemplateName: "password-reset",
		TemplateData: struct{ Name, UID, Token string }{usr.Name, EncodeUID(usr), token},
	})
}
