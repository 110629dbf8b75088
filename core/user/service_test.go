package user_test

import (
	"log"
	"os"
	"reflect"
	"testing"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/user"
	emailsvc "github.com/trezcool/ajira/services/email"
	logsvc "github.com/trezcool/ajira/services/logger"
	inmemdb "github.com/trezcool/ajira/storage/database/inmem"
)

var conf *core.Config

func TestMain(m *testing.M) {
	conf = core.NewConfig()
	conf.TestMode = true
	core.ParseEmailTemplates(logsvc.NewRollbarLogger(log.New(os.Stdout, "USER-TEST : ", log.LstdFlags), conf))
	os.Exit(m.Run())
}

func setup(t *testing.T) user.Service {
	t.Helper()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	return user.NewServiceMock(inmemdb.NewUserRepository(inmemdb.NewDB()), mailSvc, conf)
}

func create(t *testing.T, svc user.Service, name, email, role, tags string) user.User {
	t.Helper()

	usr, err := svc.Create(user.NewUser{
		Name:            name,
		Email:           email,
		Password:        "L3tsG0-t3st!",
		PasswordConfirm: "L3tsG0-t3st!",
		Role:            role,
		Tags:            tags,
	})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	return usr
}

func TestService_Create(t *testing.T) {
	svc := setup(t)

	t.Run("student tags are split", func(t *testing.T) {
		usr := create(t, svc, "Awe Kid", "awe@test.cd", user.RoleStudent, "go, SQL ,docker")
		want := []string{"go", "sql", "docker"}
		if !reflect.DeepEqual(usr.Tags, want) {
			t.Errorf("Tags = %v, want %v", usr.Tags, want)
		}
		if !usr.IsActive {
			t.Error("new user is not active")
		}
		if err := usr.CheckPassword("L3tsG0-t3st!"); err != nil {
			t.Errorf("CheckPassword() failed, %v", err)
		}
	})

	t.Run("recruiter tags are dropped", func(t *testing.T) {
		usr := create(t, svc, "Hire Her", "hire@test.cd", user.RoleRecruiter, "go,sql")
		if usr.Tags != nil {
			t.Errorf("Tags = %v, want none", usr.Tags)
		}
	})
}

func TestService_AwardBadges(t *testing.T) {
	svc := setup(t)
	usr := create(t, svc, "Awe Kid", "awe@test.cd", user.RoleStudent, "")

	usr, err := svc.AwardBadges(usr, 40, user.BadgePerfectScore)
	if err != nil {
		t.Fatalf("AwardBadges() failed, %v", err)
	}
	if usr.Points != 40 {
		t.Errorf("Points = %d, want 40", usr.Points)
	}

	// the same badge is never awarded twice; points still accrue
	usr, err = svc.AwardBadges(usr, 10, user.BadgePerfectScore, user.BadgeRisingStar)
	if err != nil {
		t.Fatalf("AwardBadges() failed, %v", err)
	}
	if usr.Points != 50 {
		t.Errorf("Points = %d, want 50", usr.Points)
	}
	want := []string{user.BadgePerfectScore, user.BadgeRisingStar}
	if !reflect.DeepEqual(usr.Badges, want) {
		t.Errorf("Badges = %v, want %v", usr.Badges, want)
	}
}

func TestService_Leaderboard(t *testing.T) {
	svc := setup(t)
	low := create(t, svc, "Low", "low@test.cd", user.RoleStudent, "")
	high := create(t, svc, "High", "high@test.cd", user.RoleStudent, "")
	create(t, svc, "Mentor", "mentor@test.cd", user.RoleMentor, "")

	var err error
	if low, err = svc.AwardBadges(low, 50); err != nil {
		t.Fatalf("AwardBadges() failed, %v", err)
	}
	if high, err = svc.AwardBadges(high, 300); err != nil {
		t.Fatalf("AwardBadges() failed, %v", err)
	}

	board, err := svc.Leaderboard()
	if err != nil {
		t.Fatalf("Leaderboard() failed, %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("len(board) = %d, want 2 (students only)", len(board))
	}
	if board[0].ID != high.ID || board[1].ID != low.ID {
		t.Errorf("board = [%s %s], want [High Low]", board[0].Name, board[1].Name)
	}

	t.Run("rank", func(t *testing.T) {
		rank, err := svc.LeaderboardRank(low)
		if err != nil {
			t.Fatalf("LeaderboardRank() failed, %v", err)
		}
		if rank != 2 {
			t.Errorf("rank = %d, want 2", rank)
		}
	})
}

func TestService_UpdateProfile(t *testing.T) {
	svc := setup(t)
	usr := create(t, svc, "Awe Kid", "awe@test.cd", user.RoleStudent, "go")

	usr, err := svc.UpdateProfile(usr, user.UpdateProfile{
		Skills:     "go, sql",
		Interests:  "backend",
		CareerGoal: "  Staff engineer ",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() failed, %v", err)
	}
	if !reflect.DeepEqual(usr.Skills, []string{"go", "sql"}) {
		t.Errorf("Skills = %v", usr.Skills)
	}
	if !reflect.DeepEqual(usr.Interests, []string{"backend"}) {
		t.Errorf("Interests = %v", usr.Interests)
	}
	if usr.CareerGoal != "Staff engineer" {
		t.Errorf("CareerGoal = %q", usr.CareerGoal)
	}
	// untouched fields survive
	if !reflect.DeepEqual(usr.Tags, []string{"go"}) {
		t.Errorf("Tags = %v, want [go]", usr.Tags)
	}
}

func TestService_PasswordReset(t *testing.T) {
	svc := setup(t)
	usr := create(t, svc, "Awe Kid", "awe@test.cd", user.RoleStudent, "")

	if err := svc.RequestPasswordReset("nobody@test.cd"); err != user.ErrNotFound {
		t.Errorf("RequestPasswordReset() error = %v, want %v", err, user.ErrNotFound)
	}

	token, err := user.MakeToken(usr, conf)
	if err != nil {
		t.Fatalf("MakeToken() failed, %v", err)
	}

	t.Run("bad token", func(t *testing.T) {
		err := svc.ResetPassword(user.ResetUserPassword{
			UID:             user.EncodeUID(usr),
			Token:           "lol-wrong-token",
			Password:        "N3w-Pa55word!",
			PasswordConfirm: "N3w-Pa55word!",
		})
		if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("ResetPassword() error = %v, want a validation error", err)
		}
	})

	t.Run("reset", func(t *testing.T) {
		err := svc.ResetPassword(user.ResetUserPassword{
			UID:             user.EncodeUID(usr),
			Token:           token,
			Password:        "N3w-Pa55word!",
			PasswordConfirm: "N3w-Pa55word!",
		})
		if err != nil {
			t.Fatalf("ResetPassword() failed, %v", err)
		}
		refreshed, err := svc.GetByID(usr.ID)
		if err != nil {
			t.Fatalf("GetByID() failed, %v", err)
		}
		if err := refreshed.CheckPassword("N3w-Pa55word!"); err != nil {
			t.Errorf("CheckPassword() failed, %v", err)
		}
	})
}
