// Package seed loads the demo dataset used by local and staging environments.
// Every step is idempotent so the command can be re-run safely.
package seed

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/civicux/civicux-api/internal/models"
	"github.com/civicux/civicux-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "senha123"

type demoUser struct {
	email, name, avatarSeed string
	level, xp, coins        int
	reports, votes          int
}

var demoUsers = []demoUser{
	{"cidadao@exemplo.com", "Bruno Ferreira", "chucky666", 8, 2450, 500, 0, 0},
	{"maria@email.com", "Maria Silva", "Maria", 5, 1200, 250, 0, 0},
	{"joao@email.com", "João Souza", "Joao", 2, 450, 100, 0, 0},
	{"ana@email.com", "Ana Costa", "Ana", 7, 1850, 420, 12, 45},
	{"carlos@email.com", "Carlos Oliveira", "Carlos", 6, 1550, 350, 8, 38},
	{"fernanda@email.com", "Fernanda Lima", "Fernanda", 4, 980, 220, 6, 25},
	{"pedro@email.com", "Pedro Santos", "Pedro", 3, 720, 180, 4, 18},
	{"juliana@email.com", "Juliana Ferreira", "Juliana", 9, 3200, 680, 18, 67},
	{"ricardo@email.com", "Ricardo Mendes", "Ricardo", 3, 650, 150, 3, 15},
	{"luciana@email.com", "Luciana Rocha", "Luciana", 5, 1320, 290, 7, 31},
}

type demoReport struct {
	author                         int
	title, description, department string
	severity                       int
	lat, lng                       float64
	address, imageURL, status      string
}

var demoReports = []demoReport{
	{0, "Buraco na Via Principal", "Um buraco enorme se abriu na faixa da direita, causando perigo aos motoristas.", "Infraestrutura", 8,
		-23.5613, -46.6563, "Avenida Paulista, 1578, Bela Vista, São Paulo, SP",
		"https://images.unsplash.com/photo-1515162816999-a0c47dc192f7?auto=format&fit=crop&q=80&w=800", models.ReportStatusPending},
	{1, "Lixo acumulado na calçada", "Sacos de lixo rasgados e espalhados pela calçada há 3 dias.", "Limpeza Urbana", 6,
		-23.5505, -46.6333, "Praça da Sé, Centro, São Paulo, SP",
		"https://images.unsplash.com/photo-1759401654832-ab2e73a14336?auto=format&fit=crop&q=80&w=800", models.ReportStatusValidated},
	{2, "Iluminação pública defeituosa", "Poste de luz piscando intermitentemente, deixando a rua escura.", "Iluminação", 4,
		-23.5987, -46.6765, "Rua Funchal, Vila Olímpia, São Paulo, SP",
		"https://images.unsplash.com/photo-1485599352433-e476c850f2a9?auto=format&fit=crop&q=80&w=800", models.ReportStatusPending},
	{0, "Sinalização de trânsito caída", "Placa de Pare caída no chão após tempestade.", "Trânsito", 5,
		-23.5678, -46.6456, "Rua Treze de Maio, Bela Vista, São Paulo, SP",
		"https://images.unsplash.com/photo-1642459124650-945b9bbce4ed?auto=format&fit=crop&q=80&w=800", models.ReportStatusPending},
}

type Result struct {
	Users   int
	Reports int
	Votes   int
}

// Run seeds achievements, demo users, reports and validation votes. Rows that
// already exist are left as they are.
func Run(db *gorm.DB, now time.Time) (Result, error) {
	var res Result

	if err := services.NewGamificationService(db).SeedAchievements(); err != nil {
		return res, fmt.Errorf("seed achievements: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return res, fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]models.User, len(demoUsers))
	for i, u := range demoUsers {
		user := models.User{
			Email:            u.email,
			Name:             u.name,
			Password:         string(hash),
			Avatar:           "https://api.dicebear.com/7.x/avataaars/svg?seed=" + u.avatarSeed,
			Role:             "user",
			Level:            u.level,
			XP:               u.xp,
			CiviCoins:        u.coins,
			ReportsSubmitted: u.reports,
			VotesCast:        u.votes,
		}
		created, err := firstOrCreate(db, &user, "email = ?", u.email)
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.email, err)
		}
		if created {
			res.Users++
		}
		users[i] = user
	}

	reports := make([]models.Report, len(demoReports))
	for i, r := range demoReports {
		report := models.Report{
			Title:       r.title,
			Description: r.description,
			Department:  r.department,
			Severity:    r.severity,
			Latitude:    r.lat,
			Longitude:   r.lng,
			Address:     r.address,
			ImageURL:    r.imageURL,
			Status:      r.status,
			AuthorID:    users[r.author].ID,
		}
		created, err := firstOrCreate(db, &report, "title = ? AND author_id = ?", r.title, report.AuthorID)
		if err != nil {
			return res, fmt.Errorf("seed report %q: %w", r.title, err)
		}
		if created {
			res.Reports++
		}
		reports[i] = report
	}

	// Every user validates the reports they didn't write; roughly a third of
	// the votes are "fake" and they are spread over the last week.
	for i, user := range users {
		for j, report := range reports {
			if report.AuthorID == user.ID {
				continue
			}
			voteType := models.VoteValid
			if (i+j)%3 == 0 {
				voteType = models.VoteFake
			}
			vote := models.Vote{
				UserID:    user.ID,
				ReportID:  report.ID,
				Type:      voteType,
				CreatedAt: now.Add(-time.Duration((i*7+j*5)%168) * time.Hour),
			}
			created, err := firstOrCreate(db, &vote, "user_id = ? AND report_id = ?", user.ID, report.ID)
			if err != nil {
				return res, fmt.Errorf("seed vote: %w", err)
			}
			if created {
				res.Votes++
			}
		}
	}

	slog.Info("seed completed", "users", res.Users, "reports", res.Reports, "votes", res.Votes)
	return res, nil
}

// firstOrCreate loads the row matching the query into dest, or inserts dest
// when there is none.
func firstOrCreate(db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.Where(query, args...).First(dest).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := db.Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}
