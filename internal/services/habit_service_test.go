package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/models"
)

func TestCreateHabit_PointsFromDifficulty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewHabitService(db)

	detail, _, err := svc.CreateHabit(user.ID, CreateHabitInput{
		Name:            "Read 20 pages",
		Category:        "learning",
		DifficultyLevel: 3,
	})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	if detail.Habit.PointsPerCompletion != 30 {
		t.Errorf("PointsPerCompletion = %d, want 30", detail.Habit.PointsPerCompletion)
	}
	if detail.Habit.TargetFrequency != "daily" {
		t.Errorf("TargetFrequency = %q, want daily", detail.Habit.TargetFrequency)
	}
	if !detail.Habit.IsActive {
		t.Errorf("new habit should be active")
	}
}

func TestCreateHabit_RejectsBadDifficulty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewHabitService(db)

	for _, difficulty := range []int{0, 6, -1} {
		_, _, err := svc.CreateHabit(user.ID, CreateHabitInput{
			Name:            "x",
			DifficultyLevel: difficulty,
		})
		if !errors.Is(err, ErrInvalidDifficulty) {
			t.Errorf("difficulty %d: expected ErrInvalidDifficulty, got %v", difficulty, err)
		}
	}
}

func TestCheckIn_AwardsBasePoints(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 2)
	svc := NewHabitService(db)

	detail, _, err := svc.CheckIn(user.ID, habit.ID, nil, "")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if len(detail.CheckIns) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(detail.CheckIns))
	}
	if detail.CheckIns[0].PointsEarned != 20 {
		t.Errorf("PointsEarned = %d, want 20", detail.CheckIns[0].PointsEarned)
	}
	if detail.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", detail.CurrentStreak)
	}

	var got models.User
	if err := db.First(&got, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if got.TotalPoints != 20 {
		t.Errorf("TotalPoints = %d, want 20", got.TotalPoints)
	}
}

func TestCheckIn_StreakBonus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 2)
	svc := NewHabitService(db)

	// A 14-day streak standing before today earns 2 full weeks of bonus.
	for i := 1; i <= 14; i++ {
		addCheckIn(t, db, habit.ID, i)
	}

	detail, _, err := svc.CheckIn(user.ID, habit.ID, nil, "")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	var today models.CheckIn
	if err := db.Where("habit_id = ?", habit.ID).Order("check_in_date DESC").First(&today).Error; err != nil {
		t.Fatalf("load check-in: %v", err)
	}
	if today.PointsEarned != 30 {
		t.Errorf("PointsEarned = %d, want 30 (20 base + 10 bonus)", today.PointsEarned)
	}
	if detail.CurrentStreak != 15 {
		t.Errorf("CurrentStreak = %d, want 15", detail.CurrentStreak)
	}
}

func TestCheckIn_BonusCapped(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 1)
	svc := NewHabitService(db)

	// 49 prior days is seven full weeks, but the bonus caps at 25.
	for i := 1; i <= 49; i++ {
		addCheckIn(t, db, habit.ID, i)
	}

	if _, _, err := svc.CheckIn(user.ID, habit.ID, nil, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	var today models.CheckIn
	if err := db.Where("habit_id = ?", habit.ID).Order("check_in_date DESC").First(&today).Error; err != nil {
		t.Fatalf("load check-in: %v", err)
	}
	if today.PointsEarned != 35 {
		t.Errorf("PointsEarned = %d, want 35 (10 base + capped 25 bonus)", today.PointsEarned)
	}
}

func TestCheckIn_NoBonusAfterBrokenStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 2)
	svc := NewHabitService(db)

	// Seven days of history with yesterday missed: the prior streak is
	// broken, so today's check-in earns base points only.
	for i := 2; i <= 8; i++ {
		addCheckIn(t, db, habit.ID, i)
	}

	if _, _, err := svc.CheckIn(user.ID, habit.ID, nil, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	var today models.CheckIn
	if err := db.Where("habit_id = ?", habit.ID).Order("check_in_date DESC").First(&today).Error; err != nil {
		t.Fatalf("load check-in: %v", err)
	}
	if today.PointsEarned != 20 {
		t.Errorf("PointsEarned = %d, want 20 base with no bonus", today.PointsEarned)
	}
}

func TestCheckIn_SameDayDuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 2)
	svc := NewHabitService(db)

	if _, _, err := svc.CheckIn(user.ID, habit.ID, nil, ""); err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}

	_, _, err := svc.CheckIn(user.ID, habit.ID, nil, "")
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}

	var count int64
	if err := db.Model(&models.CheckIn{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("count check-ins: %v", err)
	}
	if count != 1 {
		t.Errorf("check-in count = %d, want 1", count)
	}

	// The failed attempt must not have awarded anything.
	var got models.User
	if err := db.First(&got, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if got.TotalPoints != 20 {
		t.Errorf("TotalPoints = %d, want 20", got.TotalPoints)
	}
}

func TestCheckIn_MoodRatingValidated(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 2)
	svc := NewHabitService(db)

	bad := 6
	_, _, err := svc.CheckIn(user.ID, habit.ID, &bad, "")
	if !errors.Is(err, ErrInvalidMoodRating) {
		t.Fatalf("expected ErrInvalidMoodRating, got %v", err)
	}

	good := 4
	detail, _, err := svc.CheckIn(user.ID, habit.ID, &good, "felt great")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if detail.CheckIns[0].MoodRating == nil || *detail.CheckIns[0].MoodRating != 4 {
		t.Errorf("MoodRating not persisted: %+v", detail.CheckIns[0])
	}
}

func TestCheckIn_OtherUsersHabitNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	habit := createTestHabit(t, db, owner.ID, 2)
	svc := NewHabitService(db)

	_, _, err := svc.CheckIn(stranger.ID, habit.ID, nil, "")
	if !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestDeactivate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	habit := createTestHabit(t, db, user.ID, 2)
	svc := NewHabitService(db)

	if err := svc.Deactivate(user.ID, habit.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	var got models.Habit
	if err := db.First(&got, "id = ?", habit.ID).Error; err != nil {
		t.Fatalf("load habit: %v", err)
	}
	if got.IsActive {
		t.Errorf("habit still active after Deactivate")
	}

	if err := svc.Deactivate(user.ID, uuid.New()); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound for unknown habit, got %v", err)
	}
}

func TestProgress_CountsDistinctHabits(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	h1 := createTestHabit(t, db, user.ID, 2)
	createTestHabit(t, db, user.ID, 3)
	svc := NewHabitService(db)

	if _, _, err := svc.CheckIn(user.ID, h1.ID, nil, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	progress, err := svc.Progress(user.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.TotalHabits != 2 {
		t.Errorf("TotalHabits = %d, want 2", progress.TotalHabits)
	}
	if progress.CompletedToday != 1 {
		t.Errorf("CompletedToday = %d, want 1", progress.CompletedToday)
	}
	if progress.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", progress.CompletionRate)
	}
}
