package pos

import (
	"context"
	"fmt"
)

// ShiftAPI: operasi shift di backend. Keunikan shift terbuka per outlet
// ditegakkan server; klien hanya menolak lebih awal bila sudah tahu.
type ShiftAPI interface {
	ActiveShift(ctx context.Context, outletID string) (*Shift, error)
	CreateShift(ctx context.Context, outletID, employeeID string, startingCash int64) (Shift, error)
	CloseShift(ctx context.Context, shiftID string, endingCash int64, notes string) (ShiftReport, error)
}

// ShiftCache: cache lokal shift aktif (redis), opsional.
type ShiftCache interface {
	SaveActiveShift(ctx context.Context, outletID string, s *Shift) error
	ClearActiveShift(ctx context.Context, outletID string) error
}

// Shifts: siklus buka/tutup sesi laci kas. Shift terbuka adalah gerbang sah
// tidaknya checkout, jadi TIDAK ada pembuatan shift optimis saat jaringan
// gagal: state lokal hanya berubah setelah backend mengiyakan.
type Shifts struct {
	Backend ShiftAPI
	Session *Session
	Cache   ShiftCache // boleh nil
}

// FetchActive: tidak adanya shift terbuka adalah kondisi CLOSED yang normal,
// bukan error. (*Shift nil, error nil.)
func (m *Shifts) FetchActive(ctx context.Context) (*Shift, error) {
	sh, err := m.Backend.ActiveShift(ctx, m.Session.OutletID)
	if err != nil {
		return nil, fmt.Errorf("fetch active shift: %w", err)
	}
	m.Session.SetActiveShift(sh)
	if m.Cache != nil {
		_ = m.Cache.SaveActiveShift(ctx, m.Session.OutletID, sh)
	}
	return sh, nil
}

func (m *Shifts) Open(ctx context.Context, employeeID string, startingCash int64) (Shift, error) {
	if startingCash < 0 {
		return Shift{}, ErrNegativeStartingCash
	}
	if m.Session.ActiveShift() != nil {
		return Shift{}, ErrShiftAlreadyOpen
	}

	sh, err := m.Backend.CreateShift(ctx, m.Session.OutletID, employeeID, startingCash)
	if err != nil {
		// jaringan gagal = state tidak berubah; tidak ada shift lokal optimis
		return Shift{}, fmt.Errorf("open shift: %w", err)
	}
	m.Session.SetActiveShift(&sh)
	if m.Cache != nil {
		_ = m.Cache.SaveActiveShift(ctx, m.Session.OutletID, &sh)
	}
	return sh, nil
}

// Close: server menghitung expectedCash = startingCash + penjualan tunai
// selama shift, difference = endingCash − expectedCash. Selisih bukan
// penghalang; cukup tercatat di laporan.
func (m *Shifts) Close(ctx context.Context, shiftID string, endingCash int64, notes string) (ShiftReport, error) {
	report, err := m.Backend.CloseShift(ctx, shiftID, endingCash, notes)
	if err != nil {
		return ShiftReport{}, fmt.Errorf("close shift: %w", err)
	}
	m.Session.SetActiveShift(nil)
	if m.Cache != nil {
		_ = m.Cache.ClearActiveShift(ctx, m.Session.OutletID)
	}
	return report, nil
}
