package service

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	childRepo "ebivilapaula_backend/internals/features/children/repository"
	"ebivilapaula_backend/internals/features/ebi/dto"
	"ebivilapaula_backend/internals/features/ebi/model"
	userRepo "ebivilapaula_backend/internals/features/users/repository"

	"ebivilapaula_backend/internals/constants"
)

const minJustificationLen = 10

// PinNotifier delivers the checkout PIN to a guardian. Implementations must
// never fail the caller; delivery is best-effort.
type PinNotifier interface {
	SendPin(guardianPhone, childName, pinCode string)
}

// EbiService is the session lifecycle engine: create/update, presence entry
// with PIN issuance, PIN- or justification-gated checkout, close/reopen with
// an audit trail.
//
// Every operation runs in one transaction. Operations touching the same
// session are additionally serialized through a per-session mutex, so the
// "all presences checked out" check in Close cannot interleave with a
// concurrent AddPresence, and the (ebi, child) unique index closes the
// duplicate-registration race at the store.
type EbiService struct {
	DB       *gorm.DB
	Notifier PinNotifier

	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewEbiService(db *gorm.DB, notifier PinNotifier) *EbiService {
	return &EbiService{DB: db, Notifier: notifier}
}

func (s *EbiService) lockSession(ebiID uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(ebiID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

/* ===================== SESSION LIFECYCLE ===================== */

func (s *EbiService) Create(req *dto.CreateEbiRequest) (*model.EbiModel, error) {
	date, err := req.ParsedDate()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid ebi_date")
	}

	ebi := &model.EbiModel{
		EbiDate:          date,
		EbiGroupNumber:   req.GroupNumber,
		EbiCoordinatorID: req.CoordinatorID,
		EbiStatus:        model.StatusAberto,
	}

	collaboratorIDs := dedupeIDs(req.CollaboratorIDs)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := validateCoordinator(tx, req.CoordinatorID); err != nil {
			return err
		}
		if err := validateCollaborators(tx, collaboratorIDs); err != nil {
			return err
		}

		if err := tx.Create(ebi).Error; err != nil {
			return err
		}
		return replaceCollaborators(tx, ebi.EbiID, collaboratorIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.reloadEbi(ebi.EbiID)
}

func (s *EbiService) Update(ebiID uuid.UUID, req *dto.UpdateEbiRequest) (*model.EbiModel, error) {
	unlock := s.lockSession(ebiID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ebi, err := loadEbi(tx, ebiID)
		if err != nil {
			return err
		}
		if ebi.IsClosed() {
			return fiber.NewError(fiber.StatusConflict, "EBI closed")
		}

		updates := map[string]interface{}{}
		if req.Date != nil {
			date, err := req.ParsedDate()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid ebi_date")
			}
			updates["ebi_date"] = date
		}
		if req.GroupNumber != nil {
			updates["ebi_group_number"] = *req.GroupNumber
		}
		if req.CoordinatorID != nil {
			if err := validateCoordinator(tx, *req.CoordinatorID); err != nil {
				return err
			}
			updates["ebi_coordinator_id"] = *req.CoordinatorID
		}
		if len(updates) > 0 {
			if err := tx.Model(ebi).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.CollaboratorIDs != nil {
			ids := dedupeIDs(*req.CollaboratorIDs)
			if err := validateCollaborators(tx, ids); err != nil {
				return err
			}
			if err := replaceCollaborators(tx, ebiID, ids); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reloadEbi(ebiID)
}

// Close is an idempotent no-op on an already-closed session. An open session
// only closes when every presence has been checked out.
func (s *EbiService) Close(ebiID uuid.UUID) (*model.EbiModel, error) {
	unlock := s.lockSession(ebiID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ebi, err := loadEbi(tx, ebiID)
		if err != nil {
			return err
		}
		if ebi.IsClosed() {
			return nil
		}

		var pending int64
		if err := tx.Model(&model.EbiPresenceModel{}).
			Where("ebi_presence_ebi_id = ? AND ebi_presence_exit_at IS NULL", ebiID).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return fiber.NewError(fiber.StatusConflict, "All presences must be closed")
		}

		now := time.Now().UTC()
		return tx.Model(ebi).Updates(map[string]interface{}{
			"ebi_status":      model.StatusEncerrado,
			"ebi_finished_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.reloadEbi(ebiID)
}

// Reopen is an idempotent no-op on an open session. Reopening a closed one
// clears finished-at and leaves a REOPEN audit row naming the actor.
func (s *EbiService) Reopen(ebiID, actorID uuid.UUID) (*model.EbiModel, error) {
	unlock := s.lockSession(ebiID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ebi, err := loadEbi(tx, ebiID)
		if err != nil {
			return err
		}
		if !ebi.IsClosed() {
			return nil
		}

		if err := tx.Model(ebi).Updates(map[string]interface{}{
			"ebi_status":      model.StatusAberto,
			"ebi_finished_at": nil,
		}).Error; err != nil {
			return err
		}

		audit := &model.EbiAuditModel{
			EbiAuditEbiID:       ebiID,
			EbiAuditAction:      model.AuditActionReopen,
			EbiAuditPerformedBy: actorID,
		}
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}

	return s.reloadEbi(ebiID)
}

/* ===================== PRESENCE ===================== */

// AddPresence registers a child into an open session, issues the PIN and
// hands the guardian notification to the notifier. The notification is
// fire-and-forget: it runs after commit and cannot fail the registration.
func (s *EbiService) AddPresence(ebiID uuid.UUID, req *dto.AddPresenceRequest) (*model.EbiPresenceModel, string, error) {
	unlock := s.lockSession(ebiID)
	defer unlock()

	var (
		presence  *model.EbiPresenceModel
		childName string
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ebi, err := loadEbi(tx, ebiID)
		if err != nil {
			return err
		}
		if ebi.IsClosed() {
			return fiber.NewError(fiber.StatusConflict, "EBI closed")
		}

		child, err := childRepo.GetChildByID(tx, req.ChildID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Child not found")
			}
			return err
		}
		childName = child.ChildName

		var existing model.EbiPresenceModel
		err = tx.Where("ebi_presence_ebi_id = ? AND ebi_presence_child_id = ?", ebiID, req.ChildID).
			First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "Presence already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pin, err := GeneratePin()
		if err != nil {
			return err
		}

		presence = &model.EbiPresenceModel{
			EbiPresenceEbiID:            ebiID,
			EbiPresenceChildID:          req.ChildID,
			EbiPresenceGuardianNameDay:  req.GuardianNameDay,
			EbiPresenceGuardianPhoneDay: req.GuardianPhoneDay,
			EbiPresenceEntryAt:          time.Now().UTC(),
			EbiPresencePinCode:          pin,
		}
		if err := tx.Create(presence).Error; err != nil {
			// the unique index catches what the pre-check could not
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Presence already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if s.Notifier != nil {
		s.Notifier.SendPin(presence.EbiPresenceGuardianPhoneDay, childName, presence.EbiPresencePinCode)
	}

	return presence, childName, nil
}

// Checkout closes one presence. Either the supplied PIN matches exactly, or a
// justification of at least 10 trimmed characters takes its place. A wrong
// PIN is an authorization failure, not a validation one.
func (s *EbiService) Checkout(presenceID uuid.UUID, req *dto.CheckoutRequest) (*model.EbiPresenceModel, error) {
	// resolve the owning session outside the transaction to take its lock
	var probe model.EbiPresenceModel
	if err := s.DB.Select("ebi_presence_id", "ebi_presence_ebi_id").
		Where("ebi_presence_id = ?", presenceID).First(&probe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Presence not found")
		}
		return nil, err
	}

	unlock := s.lockSession(probe.EbiPresenceEbiID)
	defer unlock()

	var presence *model.EbiPresenceModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var p model.EbiPresenceModel
		if err := tx.Where("ebi_presence_id = ?", presenceID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Presence not found")
			}
			return err
		}

		ebi, err := loadEbi(tx, p.EbiPresenceEbiID)
		if err != nil {
			return err
		}
		if ebi.IsClosed() {
			return fiber.NewError(fiber.StatusConflict, "EBI closed")
		}

		if p.IsCheckedOut() {
			return fiber.NewError(fiber.StatusConflict, "Already checked out")
		}

		updates := map[string]interface{}{}

		pin := ""
		if req.PinCode != nil {
			pin = strings.TrimSpace(*req.PinCode)
		}
		if pin != "" {
			if pin != p.EbiPresencePinCode {
				return fiber.NewError(fiber.StatusForbidden, "Invalid PIN")
			}
		} else {
			justification := ""
			if req.Justification != nil {
				justification = strings.TrimSpace(*req.Justification)
			}
			if len([]rune(justification)) < minJustificationLen {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					"Checkout without PIN requires a justification of at least 10 characters")
			}
			updates["ebi_presence_justification"] = justification
		}

		now := time.Now().UTC()
		updates["ebi_presence_exit_at"] = now

		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return err
		}
		presence = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return presence, nil
}

/* ===================== READS ===================== */

func (s *EbiService) List(search string, limit, offset int) ([]model.EbiModel, int64, error) {
	var (
		items []model.EbiModel
		total int64
	)

	q := s.DB.Model(&model.EbiModel{})
	if strs := strings.TrimSpace(search); strs != "" {
		like := "%" + strings.ToLower(strs) + "%"
		q = q.Where("LOWER(CAST(ebi_date AS TEXT)) LIKE ?", like)
		if n, err := strconv.Atoi(strs); err == nil {
			q = q.Where("ebi_group_number = ?", n)
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Collaborators").
		Order("ebi_date DESC").Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetDetail loads a session with presences and audits, plus the child names
// the presence projection shows.
func (s *EbiService) GetDetail(ebiID uuid.UUID) (*model.EbiModel, map[uuid.UUID]string, error) {
	var ebi model.EbiModel
	err := s.DB.Preload("Collaborators").Preload("Presences").Preload("Audits").
		Where("ebi_id = ?", ebiID).First(&ebi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "EBI not found")
		}
		return nil, nil, err
	}

	childNames := map[uuid.UUID]string{}
	if len(ebi.Presences) > 0 {
		childIDs := make([]uuid.UUID, 0, len(ebi.Presences))
		for _, p := range ebi.Presences {
			childIDs = append(childIDs, p.EbiPresenceChildID)
		}
		type row struct {
			ChildID   uuid.UUID `gorm:"column:child_id"`
			ChildName string    `gorm:"column:child_name"`
		}
		var rows []row
		if err := s.DB.Table("children").Select("child_id, child_name").
			Where("child_id IN ?", childIDs).Scan(&rows).Error; err != nil {
			return nil, nil, err
		}
		for _, r := range rows {
			childNames[r.ChildID] = r.ChildName
		}
	}

	return &ebi, childNames, nil
}

/* ===================== INTERNAL ===================== */

func loadEbi(tx *gorm.DB, ebiID uuid.UUID) (*model.EbiModel, error) {
	var ebi model.EbiModel
	if err := tx.Where("ebi_id = ?", ebiID).First(&ebi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "EBI not found")
		}
		return nil, err
	}
	return &ebi, nil
}

func (s *EbiService) reloadEbi(ebiID uuid.UUID) (*model.EbiModel, error) {
	var ebi model.EbiModel
	if err := s.DB.Preload("Collaborators").Where("ebi_id = ?", ebiID).First(&ebi).Error; err != nil {
		return nil, err
	}
	return &ebi, nil
}

// validateCoordinator: absent user is a not-found; present user with the
// wrong role is an invalid reference.
func validateCoordinator(tx *gorm.DB, userID uuid.UUID) error {
	user, err := userRepo.GetUserByID(tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Coordinator not found")
		}
		return err
	}
	if user.UserRole != constants.RoleCoordenadora {
		return fiber.NewError(fiber.StatusBadRequest, "User "+userID.String()+" is not a coordinator")
	}
	return nil
}

func validateCollaborators(tx *gorm.DB, userIDs []uuid.UUID) error {
	for _, id := range userIDs {
		user, err := userRepo.GetUserByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid collaborator: "+id.String())
			}
			return err
		}
		if user.UserRole != constants.RoleColaboradora {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid collaborator: "+id.String())
		}
	}
	return nil
}

func replaceCollaborators(tx *gorm.DB, ebiID uuid.UUID, userIDs []uuid.UUID) error {
	if err := tx.Where("ebi_collaborator_ebi_id = ?", ebiID).
		Delete(&model.EbiCollaboratorModel{}).Error; err != nil {
		return err
	}
	for _, id := range userIDs {
		row := &model.EbiCollaboratorModel{
			EbiCollaboratorEbiID:  ebiID,
			EbiCollaboratorUserID: id,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
