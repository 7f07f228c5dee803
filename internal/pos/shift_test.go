package pos

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeShiftAPI struct {
	active    *Shift
	createErr error
	created   int
}

func (f *fakeShiftAPI) ActiveShift(ctx context.Context, outletID string) (*Shift, error) {
	return f.active, nil
}

func (f *fakeShiftAPI) CreateShift(ctx context.Context, outletID, employeeID string, startingCash int64) (Shift, error) {
	if f.createErr != nil {
		return Shift{}, f.createErr
	}
	if f.active != nil {
		// keunikan ditegakkan server
		return Shift{}, errors.New("shift already open for outlet")
	}
	f.created++
	sh := Shift{
		ID:           "shift-1",
		OutletID:     outletID,
		EmployeeID:   employeeID,
		StartTime:    time.Now().UTC(),
		StartingCash: startingCash,
		Status:       ShiftOpen,
	}
	f.active = &sh
	return sh, nil
}

func (f *fakeShiftAPI) CloseShift(ctx context.Context, shiftID string, endingCash int64, notes string) (ShiftReport, error) {
	if f.active == nil || f.active.ID != shiftID {
		return ShiftReport{}, errors.New("shift not found")
	}
	sh := *f.active
	now := time.Now().UTC()
	expected := sh.StartingCash + 150000 // penjualan tunai selama shift, dihitung server
	diff := endingCash - expected
	sh.EndTime = &now
	sh.EndingCash = &endingCash
	sh.ExpectedCash = expected
	sh.Difference = diff
	sh.Status = ShiftClosed
	sh.Notes = notes
	f.active = nil
	return ShiftReport{Shift: sh, ExpectedCash: expected, EndingCash: endingCash, Difference: diff}, nil
}

func shiftFixture(t *testing.T) (*Shifts, *Session, *fakeShiftAPI) {
	t.Helper()
	session := NewSession("outlet-1")
	api := &fakeShiftAPI{}
	return &Shifts{Backend: api, Session: session}, session, api
}

func TestFetchActiveAbsenceIsNotAnError(t *testing.T) {
	m, session, _ := shiftFixture(t)

	sh, err := m.FetchActive(context.Background())
	if err != nil {
		t.Fatalf("fetch active: %v", err)
	}
	if sh != nil {
		t.Fatalf("expected no active shift, got %+v", sh)
	}
	if session.ActiveShift() != nil {
		t.Fatalf("expected session shift nil")
	}
}

func TestOpenShift(t *testing.T) {
	m, session, api := shiftFixture(t)

	sh, err := m.Open(context.Background(), "emp-1", 200000)
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}
	if sh.Status != ShiftOpen {
		t.Fatalf("expected open status, got %s", sh.Status)
	}
	if session.ActiveShift() == nil || session.ActiveShift().ID != sh.ID {
		t.Fatalf("expected session to hold active shift")
	}
	if api.created != 1 {
		t.Fatalf("expected 1 create call, got %d", api.created)
	}
}

func TestOpenShiftNegativeStartingCash(t *testing.T) {
	m, _, _ := shiftFixture(t)
	if _, err := m.Open(context.Background(), "emp-1", -1); !errors.Is(err, ErrNegativeStartingCash) {
		t.Fatalf("expected ErrNegativeStartingCash, got %v", err)
	}
}

func TestOpenShiftAlreadyOpenRejected(t *testing.T) {
	m, session, api := shiftFixture(t)

	if _, err := m.Open(context.Background(), "emp-1", 100000); err != nil {
		t.Fatalf("first open: %v", err)
	}
	_, err := m.Open(context.Background(), "emp-2", 50000)
	if !errors.Is(err, ErrShiftAlreadyOpen) {
		t.Fatalf("expected ErrShiftAlreadyOpen, got %v", err)
	}
	if api.created != 1 {
		t.Fatalf("expected no second shift created, got %d", api.created)
	}
	if session.ActiveShift().EmployeeID != "emp-1" {
		t.Fatalf("expected original shift retained")
	}
}

func TestOpenShiftNetworkFailureLeavesStateUnchanged(t *testing.T) {
	m, session, api := shiftFixture(t)
	api.createErr = errors.New("connection refused")

	if _, err := m.Open(context.Background(), "emp-1", 100000); err == nil {
		t.Fatalf("expected error from failed open")
	}
	// tidak ada shift lokal optimis
	if session.ActiveShift() != nil {
		t.Fatalf("expected no local active shift after network failure")
	}
}

func TestCloseShiftReconciliation(t *testing.T) {
	m, session, _ := shiftFixture(t)

	sh, err := m.Open(context.Background(), "emp-1", 200000)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	report, err := m.Close(context.Background(), sh.ID, 345000, "selisih wajar")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if report.ExpectedCash != 350000 {
		t.Fatalf("expected expected_cash 350000, got %d", report.ExpectedCash)
	}
	if report.Difference != -5000 {
		t.Fatalf("expected difference -5000, got %d", report.Difference)
	}
	if report.Shift.Status != ShiftClosed {
		t.Fatalf("expected closed status, got %s", report.Shift.Status)
	}
	// selisih tidak menghalangi penutupan; referensi lokal dibersihkan
	if session.ActiveShift() != nil {
		t.Fatalf("expected local active shift cleared after close")
	}
}
