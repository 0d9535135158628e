package policy

import (
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

// AgeByMonth is the year difference minus one when the birthday month is
// still ahead this calendar year. Day of month is ignored.
func AgeByMonth(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	if birthday.Month() > today.Month() {
		age--
	}
	return age
}

// OlderThan keeps users whose AgeByMonth is strictly greater than age.
// Users without a birthday are dropped.
func OlderThan(users []*entity.User, age int, today time.Time) []*entity.User {
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if u.Birthday == nil {
			continue
		}
		if AgeByMonth(*u.Birthday, today) > age {
			out = append(out, u)
		}
	}
	return out
}
