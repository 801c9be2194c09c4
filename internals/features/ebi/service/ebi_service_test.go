package service

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/constants"
	childModel "ebivilapaula_backend/internals/features/children/model"
	"ebivilapaula_backend/internals/features/ebi/dto"
	"ebivilapaula_backend/internals/features/ebi/model"
	userModel "ebivilapaula_backend/internals/features/users/model"
)

type fakeNotifier struct {
	calls []notifyCall
}

type notifyCall struct {
	Phone     string
	ChildName string
	PinCode   string
}

func (f *fakeNotifier) SendPin(phone, childName, pinCode string) {
	f.calls = append(f.calls, notifyCall{Phone: phone, ChildName: childName, PinCode: pinCode})
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ebi_test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&childModel.ChildModel{},
		&childModel.ChildGuardianModel{},
		&model.EbiModel{},
		&model.EbiCollaboratorModel{},
		&model.EbiPresenceModel{},
		&model.EbiAuditModel{},
	))
	return db
}

type fixture struct {
	svc          *EbiService
	notifier     *fakeNotifier
	coordinator  userModel.UserModel
	collaborator userModel.UserModel
	child        childModel.ChildModel
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	f := &fixture{notifier: &fakeNotifier{}}
	f.svc = NewEbiService(db, f.notifier)

	f.coordinator = userModel.UserModel{
		UserFullName:     "Maria Coordenadora",
		UserEmail:        "maria@ebivilapaula.local",
		UserPhone:        "11988887777",
		UserRole:         constants.RoleCoordenadora,
		UserGroupNumber:  1,
		UserPasswordHash: "x",
		UserIsActive:     true,
	}
	require.NoError(t, db.Create(&f.coordinator).Error)

	f.collaborator = userModel.UserModel{
		UserFullName:     "Ana Colaboradora",
		UserEmail:        "ana@ebivilapaula.local",
		UserPhone:        "11977776666",
		UserRole:         constants.RoleColaboradora,
		UserGroupNumber:  1,
		UserPasswordHash: "x",
		UserIsActive:     true,
	}
	require.NoError(t, db.Create(&f.collaborator).Error)

	f.child = childModel.ChildModel{
		ChildName:          "Pedro",
		ChildGuardianName:  "Joana",
		ChildGuardianPhone: "11966665555",
	}
	require.NoError(t, db.Create(&f.child).Error)

	return f
}

func (f *fixture) createSession(t *testing.T) *model.EbiModel {
	t.Helper()
	ebi, err := f.svc.Create(&dto.CreateEbiRequest{
		Date:            "2026-02-09",
		GroupNumber:     1,
		CoordinatorID:   f.coordinator.UserID,
		CollaboratorIDs: []uuid.UUID{f.collaborator.UserID},
	})
	require.NoError(t, err)
	return ebi
}

func (f *fixture) addPresence(t *testing.T) *model.EbiPresenceModel {
	t.Helper()
	ebi := f.createSession(t)
	presence, _, err := f.svc.AddPresence(ebi.EbiID, &dto.AddPresenceRequest{
		ChildID:          f.child.ChildID,
		GuardianNameDay:  "Joana do dia",
		GuardianPhoneDay: "11955554444",
	})
	require.NoError(t, err)
	return presence
}

func requireFiberStatus(t *testing.T, err error, code int) {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, code, fe.Code)
}

func strptr(s string) *string { return &s }

/* ===================== CREATE / UPDATE ===================== */

func TestCreate_ValidSessionStartsOpen(t *testing.T) {
	f := setupFixture(t)

	ebi := f.createSession(t)
	require.Equal(t, model.StatusAberto, ebi.EbiStatus)
	require.Nil(t, ebi.EbiFinishedAt)
	require.Len(t, ebi.Collaborators, 1)
	require.Equal(t, f.collaborator.UserID, ebi.Collaborators[0].EbiCollaboratorUserID)
}

func TestCreate_UnknownCoordinatorIsNotFound(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.Create(&dto.CreateEbiRequest{
		Date:          "2026-02-09",
		GroupNumber:   1,
		CoordinatorID: uuid.New(),
	})
	requireFiberStatus(t, err, fiber.StatusNotFound)
}

func TestCreate_WrongRoleCoordinatorIsRejected(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.Create(&dto.CreateEbiRequest{
		Date:          "2026-02-09",
		GroupNumber:   1,
		CoordinatorID: f.collaborator.UserID,
	})
	requireFiberStatus(t, err, fiber.StatusBadRequest)
}

func TestCreate_InvalidCollaboratorNamesTheBadID(t *testing.T) {
	f := setupFixture(t)
	badID := uuid.New()

	_, err := f.svc.Create(&dto.CreateEbiRequest{
		Date:            "2026-02-09",
		GroupNumber:     1,
		CoordinatorID:   f.coordinator.UserID,
		CollaboratorIDs: []uuid.UUID{badID},
	})
	requireFiberStatus(t, err, fiber.StatusBadRequest)
	require.Contains(t, err.Error(), badID.String())

	// a coordinator cannot be attached as collaborator either
	_, err = f.svc.Create(&dto.CreateEbiRequest{
		Date:            "2026-02-09",
		GroupNumber:     1,
		CoordinatorID:   f.coordinator.UserID,
		CollaboratorIDs: []uuid.UUID{f.coordinator.UserID},
	})
	requireFiberStatus(t, err, fiber.StatusBadRequest)
}

func TestUpdate_ClosedSessionConflicts(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	_, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)

	group := 2
	_, err = f.svc.Update(ebi.EbiID, &dto.UpdateEbiRequest{GroupNumber: &group})
	requireFiberStatus(t, err, fiber.StatusConflict)
}

func TestUpdate_ReplacesCollaboratorSet(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	empty := []uuid.UUID{}
	updated, err := f.svc.Update(ebi.EbiID, &dto.UpdateEbiRequest{CollaboratorIDs: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.Collaborators)
}

/* ===================== PRESENCE ===================== */

func TestAddPresence_IssuesPinAndNotifies(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	require.Len(t, presence.EbiPresencePinCode, 4)
	for _, ch := range presence.EbiPresencePinCode {
		require.True(t, ch >= '0' && ch <= '9')
	}
	require.False(t, presence.EbiPresenceEntryAt.IsZero())
	require.Nil(t, presence.EbiPresenceExitAt)

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	require.Equal(t, "11955554444", call.Phone)
	require.Equal(t, "Pedro", call.ChildName)
	require.Equal(t, presence.EbiPresencePinCode, call.PinCode)
}

func TestAddPresence_DuplicateChildConflicts(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	_, _, err := f.svc.AddPresence(presence.EbiPresenceEbiID, &dto.AddPresenceRequest{
		ChildID:          f.child.ChildID,
		GuardianNameDay:  "Joana do dia",
		GuardianPhoneDay: "11955554444",
	})
	requireFiberStatus(t, err, fiber.StatusConflict)
}

func TestAddPresence_UnknownChildIsNotFound(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	_, _, err := f.svc.AddPresence(ebi.EbiID, &dto.AddPresenceRequest{
		ChildID:          uuid.New(),
		GuardianNameDay:  "Joana do dia",
		GuardianPhoneDay: "11955554444",
	})
	requireFiberStatus(t, err, fiber.StatusNotFound)
}

func TestAddPresence_ClosedSessionConflicts(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	_, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)

	_, _, err = f.svc.AddPresence(ebi.EbiID, &dto.AddPresenceRequest{
		ChildID:          f.child.ChildID,
		GuardianNameDay:  "Joana do dia",
		GuardianPhoneDay: "11955554444",
	})
	requireFiberStatus(t, err, fiber.StatusConflict)
}

/* ===================== CHECKOUT ===================== */

func TestCheckout_WrongPinIsForbidden(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	wrong := "0000"
	if presence.EbiPresencePinCode == wrong {
		wrong = "1111"
	}

	_, err := f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{PinCode: &wrong})
	requireFiberStatus(t, err, fiber.StatusForbidden)

	// wrong PIN must not stamp the exit
	var current model.EbiPresenceModel
	require.NoError(t, f.svc.DB.
		Where("ebi_presence_id = ?", presence.EbiPresenceID).First(&current).Error)
	require.Nil(t, current.EbiPresenceExitAt)
}

func TestCheckout_CorrectPinSucceeds(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	out, err := f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		PinCode: &presence.EbiPresencePinCode,
	})
	require.NoError(t, err)
	require.NotNil(t, out.EbiPresenceExitAt)
	require.Nil(t, out.EbiPresenceJustification, "PIN path must not store a justification")
}

func TestCheckout_TwiceConflicts(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	_, err := f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		PinCode: &presence.EbiPresencePinCode,
	})
	require.NoError(t, err)

	_, err = f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		PinCode: &presence.EbiPresencePinCode,
	})
	requireFiberStatus(t, err, fiber.StatusConflict)

	// override path after checkout conflicts the same way
	_, err = f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		Justification: strptr("guardian lost the PIN today"),
	})
	requireFiberStatus(t, err, fiber.StatusConflict)
}

func TestCheckout_JustificationTooShortIsRejected(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	_, err := f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{})
	requireFiberStatus(t, err, fiber.StatusUnprocessableEntity)

	_, err = f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		Justification: strptr("  too short  "),
	})
	requireFiberStatus(t, err, fiber.StatusUnprocessableEntity)
}

func TestCheckout_JustificationIsTrimmedAndStored(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	out, err := f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		Justification: strptr("   guardian lost the PIN today   "),
	})
	require.NoError(t, err)
	require.NotNil(t, out.EbiPresenceExitAt)
	require.NotNil(t, out.EbiPresenceJustification)
	require.Equal(t, "guardian lost the PIN today", *out.EbiPresenceJustification)
	require.False(t, strings.HasPrefix(*out.EbiPresenceJustification, " "))
}

func TestCheckout_UnknownPresenceIsNotFound(t *testing.T) {
	f := setupFixture(t)
	f.createSession(t)

	_, err := f.svc.Checkout(uuid.New(), &dto.CheckoutRequest{})
	requireFiberStatus(t, err, fiber.StatusNotFound)
}

/* ===================== CLOSE / REOPEN ===================== */

func TestClose_PendingCheckoutsConflict(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)
	ebiID := presence.EbiPresenceEbiID

	_, err := f.svc.Close(ebiID)
	requireFiberStatus(t, err, fiber.StatusConflict)

	// the session stays open until the presence is checked out
	current, err := f.svc.reloadEbi(ebiID)
	require.NoError(t, err)
	require.Equal(t, model.StatusAberto, current.EbiStatus)

	_, err = f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		PinCode: &presence.EbiPresencePinCode,
	})
	require.NoError(t, err)

	// a fresh open presence after the failed attempt keeps close blocked
	other := childModel.ChildModel{ChildName: "Lucas", ChildGuardianName: "Rita", ChildGuardianPhone: "11944443333"}
	require.NoError(t, f.svc.DB.Create(&other).Error)
	second, _, err := f.svc.AddPresence(ebiID, &dto.AddPresenceRequest{
		ChildID:          other.ChildID,
		GuardianNameDay:  "Rita",
		GuardianPhoneDay: "11944443333",
	})
	require.NoError(t, err)

	_, err = f.svc.Close(ebiID)
	requireFiberStatus(t, err, fiber.StatusConflict)

	_, err = f.svc.Checkout(second.EbiPresenceID, &dto.CheckoutRequest{
		PinCode: &second.EbiPresencePinCode,
	})
	require.NoError(t, err)

	closed, err := f.svc.Close(ebiID)
	require.NoError(t, err)
	require.Equal(t, model.StatusEncerrado, closed.EbiStatus)
	require.NotNil(t, closed.EbiFinishedAt)
}

func TestClose_IsIdempotent(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	first, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)

	second, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)
	require.Equal(t, model.StatusEncerrado, second.EbiStatus)
	require.Equal(t, first.EbiFinishedAt.Unix(), second.EbiFinishedAt.Unix())
}

func TestReopen_OpenSessionIsNoOpWithoutAudit(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	reopened, err := f.svc.Reopen(ebi.EbiID, f.coordinator.UserID)
	require.NoError(t, err)
	require.Equal(t, model.StatusAberto, reopened.EbiStatus)

	var audits int64
	require.NoError(t, f.svc.DB.Model(&model.EbiAuditModel{}).
		Where("ebi_audit_ebi_id = ?", ebi.EbiID).Count(&audits).Error)
	require.Zero(t, audits)
}

func TestReopen_ClosedSessionFlipsAndAudits(t *testing.T) {
	f := setupFixture(t)
	ebi := f.createSession(t)

	_, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)

	reopened, err := f.svc.Reopen(ebi.EbiID, f.coordinator.UserID)
	require.NoError(t, err)
	require.Equal(t, model.StatusAberto, reopened.EbiStatus)
	require.Nil(t, reopened.EbiFinishedAt)

	var audits []model.EbiAuditModel
	require.NoError(t, f.svc.DB.
		Where("ebi_audit_ebi_id = ?", ebi.EbiID).Find(&audits).Error)
	require.Len(t, audits, 1)
	require.Equal(t, model.AuditActionReopen, audits[0].EbiAuditAction)
	require.Equal(t, f.coordinator.UserID, audits[0].EbiAuditPerformedBy)

	// a permissive re-close right after reopen is allowed
	closed, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)
	require.Equal(t, model.StatusEncerrado, closed.EbiStatus)
}

/* ===================== END TO END ===================== */

func TestScenario_FullDay(t *testing.T) {
	f := setupFixture(t)

	ebi, err := f.svc.Create(&dto.CreateEbiRequest{
		Date:          "2026-02-09",
		GroupNumber:   1,
		CoordinatorID: f.coordinator.UserID,
	})
	require.NoError(t, err)

	presence, childName, err := f.svc.AddPresence(ebi.EbiID, &dto.AddPresenceRequest{
		ChildID:          f.child.ChildID,
		GuardianNameDay:  "Joana do dia",
		GuardianPhoneDay: "+5511955554444",
	})
	require.NoError(t, err)
	require.Equal(t, "Pedro", childName)
	require.Regexp(t, `^\d{4}$`, presence.EbiPresencePinCode)

	wrong := "9999"
	if presence.EbiPresencePinCode == wrong {
		wrong = "8888"
	}
	_, err = f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{PinCode: &wrong})
	requireFiberStatus(t, err, fiber.StatusForbidden)

	out, err := f.svc.Checkout(presence.EbiPresenceID, &dto.CheckoutRequest{
		PinCode: &presence.EbiPresencePinCode,
	})
	require.NoError(t, err)
	require.NotNil(t, out.EbiPresenceExitAt)

	closed, err := f.svc.Close(ebi.EbiID)
	require.NoError(t, err)
	require.Equal(t, model.StatusEncerrado, closed.EbiStatus)
	require.NotNil(t, closed.EbiFinishedAt)
}

func TestDetail_LoadsPresencesAndChildNames(t *testing.T) {
	f := setupFixture(t)
	presence := f.addPresence(t)

	ebi, childNames, err := f.svc.GetDetail(presence.EbiPresenceEbiID)
	require.NoError(t, err)
	require.Len(t, ebi.Presences, 1)
	require.Equal(t, "Pedro", childNames[f.child.ChildID])
}
