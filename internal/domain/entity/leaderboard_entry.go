package entity

import "time"

// LeaderboardEntry представляет денормализованную запись лидерборда.
// Одна запись на игрока; обновляется синхронно после каждой оценённой
// отправки ответа.
type LeaderboardEntry struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Username    string    `gorm:"size:50;not null" json:"username"`
	XP          int64     `gorm:"not null;default:0;index:idx_leaderboard_order,priority:1,sort:desc" json:"xp"`
	Level       int       `gorm:"not null;default:1" json:"level"`
	Wins        int64     `gorm:"not null;default:0;index:idx_leaderboard_order,priority:2,sort:desc" json:"wins"`
	Streak      int64     `gorm:"not null;default:0;index:idx_leaderboard_order,priority:3,sort:desc" json:"streak"`
	Losses      int64     `gorm:"not null;default:0" json:"losses"`
	GamesPlayed int64     `gorm:"not null;default:0" json:"games_played"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`

	// Rank вычисляется при выдаче и в базе не хранится
	Rank int64 `gorm:"-" json:"rank"`
}

// TableName определяет имя таблицы для GORM
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// SnapshotFromUser формирует запись лидерборда из текущего состояния игрока
func SnapshotFromUser(u *User, now time.Time) *LeaderboardEntry {
	return &LeaderboardEntry{
		UserID:      u.ID,
		Username:    u.Username,
		XP:          u.XP,
		Level:       u.Level,
		Wins:        u.Wins,
		Streak:      u.Streak,
		Losses:      u.Losses,
		GamesPlayed: u.GamesPlayed,
		LastUpdated: now,
	}
}
