package hooks

import (
	"errors"
	"testing"

	"seguard-hq/seguard/pkg/oracle"
	"seguard-hq/seguard/pkg/session"
)

func TestDML_AllowsWhenOracleAllows(t *testing.T) {
	fo := &fakeOracle{}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	refs := []RangeTableRef{
		{
			TableID:  16384,
			Name:     "orders",
			Required: oracle.PermSelect,
			Columns: []ColumnRef{
				{SubID: 1, Name: "id", Required: oracle.PermSelect},
				{SubID: 2, Name: "total", Required: oracle.PermSelect},
			},
		},
	}
	ok, err := points.DMLPermission(refs, true)
	if err != nil || !ok {
		t.Fatalf("expected allow, got ok=%v err=%v", ok, err)
	}
	// One table query plus one per referenced column.
	if fo.checkCalls != 3 {
		t.Errorf("oracle queries = %d, want 3", fo.checkCalls)
	}
}

func TestDML_ChainedDenyShortCircuits(t *testing.T) {
	fo := &fakeOracle{}
	m := newTestMediator(t, fo)

	points := &HookPoints{
		DMLPermission: func(refs []RangeTableRef, abortOnDeny bool) (bool, error) {
			return false, nil
		},
	}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	refs := []RangeTableRef{{TableID: 16384, Name: "orders", Required: oracle.PermSelect}}
	ok, err := points.DMLPermission(refs, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("chained denial must deny the whole check")
	}
	if fo.checkCalls != 0 {
		t.Errorf("oracle queries = %d, want 0 after chained denial", fo.checkCalls)
	}
}

func TestDML_TableDenialSkipsColumnQueries(t *testing.T) {
	fo := &fakeOracle{
		decide: func(class oracle.ObjectClass, perms oracle.Permission) bool {
			return class != oracle.ClassTable
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	refs := []RangeTableRef{
		{
			TableID:  16384,
			Name:     "orders",
			Required: oracle.PermUpdate,
			Columns:  []ColumnRef{{SubID: 1, Name: "id", Required: oracle.PermUpdate}},
		},
	}
	ok, err := points.DMLPermission(refs, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected denial")
	}
	if fo.checkCalls != 1 {
		t.Errorf("oracle queries = %d, want 1 (table only)", fo.checkCalls)
	}
}

func TestDML_ColumnDenial(t *testing.T) {
	fo := &fakeOracle{
		decide: func(class oracle.ObjectClass, perms oracle.Permission) bool {
			return class != oracle.ClassColumn
		},
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	refs := []RangeTableRef{
		{
			TableID:  16384,
			Name:     "orders",
			Required: oracle.PermSelect,
			Columns:  []ColumnRef{{SubID: 2, Name: "total", Required: oracle.PermSelect}},
		},
	}
	ok, err := points.DMLPermission(refs, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("a denied column must deny the whole statement")
	}
}

func TestDML_AbortOnDenyReturnsAccessDenied(t *testing.T) {
	fo := &fakeOracle{
		decide: func(oracle.ObjectClass, oracle.Permission) bool { return false },
	}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	refs := []RangeTableRef{{TableID: 16384, Name: "orders", Required: oracle.PermDelete}}
	ok, err := points.DMLPermission(refs, true)
	if ok {
		t.Error("expected denial")
	}
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.Class != oracle.ClassTable {
		t.Errorf("denied class = %s, want %s", denied.Class, oracle.ClassTable)
	}
}

func TestDML_PermissiveModeAllowsDespiteDenial(t *testing.T) {
	fo := &fakeOracle{
		peerLabel: "u:r:t:s0",
		decide:    func(oracle.ObjectClass, oracle.Permission) bool { return false },
	}
	m, err := New(Options{Oracle: fo, Settings: NewSettings(true, false)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if err := points.Authentication(nil, AuthOK); err != nil {
		t.Fatalf("authentication failed: %v", err)
	}
	if m.State().Mode() != session.ModePermissive {
		t.Fatalf("expected permissive mode, got %s", m.State().Mode())
	}

	refs := []RangeTableRef{{TableID: 16384, Name: "orders", Required: oracle.PermSelect}}
	ok, err := points.DMLPermission(refs, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("permissive mode must log the denial and allow")
	}
}

func TestDML_RefsWithoutRequiredAccessSkipped(t *testing.T) {
	fo := &fakeOracle{}
	m := newTestMediator(t, fo)
	points := &HookPoints{}
	if err := m.Install(points); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	refs := []RangeTableRef{{TableID: 16384, Name: "cte_scan"}}
	ok, err := points.DMLPermission(refs, true)
	if err != nil || !ok {
		t.Fatalf("expected allow, got ok=%v err=%v", ok, err)
	}
	if fo.checkCalls != 0 {
		t.Errorf("oracle queries = %d, want 0", fo.checkCalls)
	}
}
