package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"nutriagent/nutrition"
)

// Service implements the ledger operations over a Store. Every mutation is a
// whole-record read-modify-write; a per-user mutex serializes concurrent
// writers for the same user so last-write-wins races cannot drop updates.
type Service struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) userLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// ProfileUpdate carries demographic fields for SaveProfile. Nil fields are
// left untouched on the stored profile.
type ProfileUpdate struct {
	Name     string
	Age      *int
	WeightKg *float64
	HeightCm *float64
	Gender   *nutrition.Gender
}

// LogFoods records resolved foods for one user and date. Foods append to any
// existing entry for that date; totals replace it wholesale. A first-ever log
// creates the ledger with profile fields still absent.
func (s *Service) LogFoods(ctx context.Context, name, date string, foods []string, totals nutrition.Totals) (DailyEntry, error) {
	if err := validateName(name); err != nil {
		return DailyEntry{}, err
	}
	if err := validateDate(date); err != nil {
		return DailyEntry{}, err
	}
	if err := validateTotals(totals); err != nil {
		return DailyEntry{}, err
	}

	lock := s.userLock(Key(name))
	lock.Lock()
	defer lock.Unlock()

	l, err := s.loadOrCreate(ctx, name)
	if err != nil {
		return DailyEntry{}, err
	}

	entry := l.Entry(date)
	if entry == nil {
		l.History = append(l.History, DailyEntry{Date: date, Foods: []string{}})
		entry = &l.History[len(l.History)-1]
	}
	entry.Foods = append(entry.Foods, foods...)
	entry.Totals = totals

	if err := s.store.Save(ctx, l); err != nil {
		return DailyEntry{}, err
	}
	return *entry, nil
}

// SaveProfile creates the user's ledger if absent and updates the supplied
// demographic fields. A stored field is only overwritten when the incoming
// value actually differs.
func (s *Service) SaveProfile(ctx context.Context, update ProfileUpdate) (*UserLedger, error) {
	if err := validateName(update.Name); err != nil {
		return nil, err
	}
	if update.Age != nil && *update.Age <= 0 {
		return nil, &nutrition.ValidationError{Field: "age", Reason: "must be a positive number of years"}
	}
	if update.WeightKg != nil && *update.WeightKg <= 0 {
		return nil, &nutrition.ValidationError{Field: "weight", Reason: "must be positive kilograms"}
	}
	if update.HeightCm != nil && *update.HeightCm <= 0 {
		return nil, &nutrition.ValidationError{Field: "height", Reason: "must be positive centimeters"}
	}
	if update.Gender != nil {
		if _, err := nutrition.ParseGender(string(*update.Gender)); err != nil {
			return nil, err
		}
	}

	lock := s.userLock(Key(update.Name))
	lock.Lock()
	defer lock.Unlock()

	l, err := s.loadOrCreate(ctx, update.Name)
	if err != nil {
		return nil, err
	}

	if update.Age != nil && *update.Age != l.Age {
		l.Age = *update.Age
	}
	if update.WeightKg != nil && *update.WeightKg != l.WeightKg {
		l.WeightKg = *update.WeightKg
	}
	if update.HeightCm != nil && *update.HeightCm != l.HeightCm {
		l.HeightCm = *update.HeightCm
	}
	if update.Gender != nil && *update.Gender != l.Gender {
		l.Gender = *update.Gender
	}

	if err := s.store.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get loads the full ledger for a user. Returns ErrNotFound when the user has
// never been saved.
func (s *Service) Get(ctx context.Context, name string) (*UserLedger, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, name)
}

// AttachAnalysis stores the guideline verdicts on the entry for the given
// date. Unlike LogFoods, the user's ledger must already exist; the date entry
// itself is created on demand.
func (s *Service) AttachAnalysis(ctx context.Context, name, date string, analysis map[nutrition.Nutrient]string) (DailyEntry, error) {
	if err := validateName(name); err != nil {
		return DailyEntry{}, err
	}
	if err := validateDate(date); err != nil {
		return DailyEntry{}, err
	}
	if len(analysis) == 0 {
		return DailyEntry{}, &nutrition.ValidationError{Field: "analysis", Reason: "must not be empty"}
	}

	lock := s.userLock(Key(name))
	lock.Lock()
	defer lock.Unlock()

	l, err := s.store.Load(ctx, name)
	if err != nil {
		return DailyEntry{}, err
	}

	entry := l.Entry(date)
	if entry == nil {
		l.History = append(l.History, DailyEntry{Date: date, Foods: []string{}})
		entry = &l.History[len(l.History)-1]
	}
	entry.Analysis = analysis

	if err := s.store.Save(ctx, l); err != nil {
		return DailyEntry{}, err
	}
	return *entry, nil
}

func (s *Service) loadOrCreate(ctx context.Context, name string) (*UserLedger, error) {
	l, err := s.store.Load(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return &UserLedger{Profile: Profile{Name: strings.TrimSpace(name)}, History: []DailyEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &nutrition.ValidationError{Field: "name", Reason: "must be a non-empty string"}
	}
	return nil
}

func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return &nutrition.ValidationError{Field: "date", Reason: "must be a non-empty string"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &nutrition.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	return nil
}

func validateTotals(totals nutrition.Totals) error {
	for _, n := range nutrition.AllNutrients() {
		if totals.Get(n) < 0 {
			return &nutrition.ValidationError{Field: string(n), Reason: "must be non-negative"}
		}
	}
	return nil
}
