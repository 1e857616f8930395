package memstore

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
)

// DevPassword is the shared password for seeded dev accounts.
const DevPassword = "123456"

// Seeded returns a store loaded with the demo data set: two end users, an
// admin, a super-admin and a handful of historical payments.
func Seeded() *Store {
	s := New()
	hash := mustHash(DevPassword)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	seedUsers := []model.User{
		{Email: "libamlak@chapa.com", Username: "libamlak", Role: domainauth.RoleUser, Active: true, Balance: 3000},
		{Email: "test@chapa.com", Username: "test", Role: domainauth.RoleUser, Active: true, Balance: 2000},
		{Email: "admin@chapa.com", Username: "admin", Role: domainauth.RoleAdmin, Active: true, Balance: 1000},
		{Email: "superadmin@chapa.com", Username: "superadmin", Role: domainauth.RoleSuperAdmin, Active: true, Balance: 1000},
	}
	for i, u := range seedUsers {
		u.PasswordHash = hash
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		u.UpdatedAt = u.CreatedAt
		s.AddUser(u)
	}

	seedTxs := []model.Transaction{
		{UserID: "libamlak@chapa.com", Amount: -200, To: "Abebe", Date: date(2024, 5, 1)},
		{UserID: "libamlak@chapa.com", Amount: 500, To: "libamlak", Date: date(2024, 5, 3)},
		{UserID: "libamlak@chapa.com", Amount: -120, To: "Kebede", Date: date(2024, 5, 10)},
		{UserID: "test@chapa.com", Amount: -300, To: "Sara", Date: date(2024, 5, 2)},
		{UserID: "test@chapa.com", Amount: 150, To: "test", Date: date(2024, 5, 6)},
		{UserID: "test@chapa.com", Amount: -75, To: "Hanna", Date: date(2024, 5, 12)},
	}
	for _, tx := range seedTxs {
		s.AddTransaction(tx)
	}
	return s
}

func date(y int, m time.Month, d int) model.DateOnly {
	return model.DateOnly(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func mustHash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}
