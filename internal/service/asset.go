package service

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/apperr"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/policy"
)

// MaxImageBytes is the largest room image accepted.
const MaxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// AssetService stores one image per room.
type AssetService struct {
	rooms   RoomStore
	audit   *AuditTrail
	timeout time.Duration
}

func NewAssetService(rooms RoomStore, audit *AuditTrail, timeout time.Duration) *AssetService {
	return &AssetService{rooms: rooms, audit: audit, timeout: orDefault(timeout)}
}

// Put replaces the image of a room.  Both the declared content type and the
// type sniffed from the bytes must be JPEG or PNG and agree with each
// other.  An empty declared type is taken from the sniffed one.
func (s *AssetService) Put(ctx context.Context, actor Actor, roomID uint64, data []byte, contentType string) error {
	const op = "asset.put"
	if !policy.Permit(actor.Role, policy.ManageRooms, false) {
		return apperr.E(apperr.Forbidden, op, nil)
	}
	if len(data) == 0 {
		return apperr.Newf(apperr.InvalidInput, op, "empty image")
	}
	if len(data) > MaxImageBytes {
		return apperr.Newf(apperr.TooLarge, op, "%d bytes exceeds %d", len(data), MaxImageBytes)
	}
	sniffed := http.DetectContentType(data)
	declared := sniffed
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return apperr.E(apperr.UnsupportedType, op, err)
		}
		declared = mt
	}
	if !allowedImageTypes[declared] || declared != sniffed {
		return apperr.Newf(apperr.UnsupportedType, op, "declared %q, detected %q", declared, sniffed)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.rooms.RoomByID(ctx, roomID); err != nil {
		return storeErr(op, err)
	}
	if err := s.rooms.SetRoomImage(ctx, roomID, data, declared); err != nil {
		return storeErr(op, err)
	}
	s.audit.Record(ctx, actor.ID, model.AuditRoomImage,
		fmt.Sprintf("room=%d bytes=%d content_type=%s", roomID, len(data), declared))
	return nil
}

// Get returns a room's image bytes and content type.
func (s *AssetService) Get(ctx context.Context, roomID uint64) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	data, ct, err := s.rooms.RoomImage(ctx, roomID)
	if err != nil {
		return nil, "", storeErr("asset.get", err)
	}
	return data, ct, nil
}
