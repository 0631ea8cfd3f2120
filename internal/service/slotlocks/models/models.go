package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// LockRequest тело запроса на блокировку слота
type LockRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// SlotLockResponse блокировка слота
type SlotLockResponse struct {
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Reason    *string   `json:"reason,omitempty"`
	LockedBy  string    `json:"lockedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// LockResultResponse результат блокировки.
// HasActiveBooking = true, если на слот уже есть действующая запись: она не отменяется
type LockResultResponse struct {
	SlotLockResponse
	HasActiveBooking bool `json:"hasActiveBooking"`
}

// UnlockResultResponse результат снятия блокировки
type UnlockResultResponse struct {
	Removed bool `json:"removed"`
}

// SlotLockListResponse блокировки за день
type SlotLockListResponse struct {
	Date  string             `json:"date"`
	Locks []SlotLockResponse `json:"locks"`
}

// FromDomainSlotLock конвертирует доменную модель в ответ
func FromDomainSlotLock(l *domain.SlotLock) SlotLockResponse {
	return SlotLockResponse{
		Date:      l.Date.String(),
		Time:      l.Time.String(),
		Reason:    l.Reason,
		LockedBy:  l.LockedBy,
		CreatedAt: l.CreatedAt,
	}
}
