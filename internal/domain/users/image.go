package users

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"vetly/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	imageFolder = "users"

	MsgImageMissing  = "Nenhuma imagem enviada"
	MsgImageTooLarge = "A imagem excede o tamanho máximo permitido (5MB)"
	MsgImageType     = "Apenas imagens são permitidas"
	msgUploadFailed  = "Erro ao enviar imagem"
)

// ValidateImage rechaza archivos vacíos, grandes o que no sean imagen.
// Se chequea el Content-Type declarado y el tipo real detectado por contenido.
func (s *Service) ValidateImage(img Image) (*mimetype.MIME, error) {
	if len(img.Data) == 0 {
		return nil, domain.Validation(MsgImageMissing)
	}
	if s.maxImageBytes > 0 && int64(len(img.Data)) > s.maxImageBytes {
		return nil, domain.Validation(MsgImageTooLarge)
	}

	declared, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil || !strings.HasPrefix(declared, "image/") {
		return nil, domain.Validation(MsgImageType)
	}

	detected := mimetype.Detect(img.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, domain.Validation(MsgImageType)
	}
	return detected, nil
}

// UploadImage valida, sube al storage (carpeta "users") y guarda la URL en el usuario.
// Todo rechazo ocurre antes de tocar el storage.
func (s *Service) UploadImage(ctx context.Context, callerID, id string, img Image) (user User, err error) {
	defer func() {
		switch {
		case err == nil:
			s.observeUpload("ok")
		case errors.Is(err, domain.ErrUpload):
			s.observeUpload("error")
		default:
			s.observeUpload("rejected")
		}
	}()

	detected, err := s.ValidateImage(img)
	if err != nil {
		return User{}, err
	}

	u, err := s.ownedUser(ctx, callerID, id)
	if err != nil {
		return User{}, err
	}

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	key := fmt.Sprintf("%s/%s-%s%s", imageFolder, u.ID, uuid.NewString(), detected.Extension())
	url, err := s.images.Upload(ctx, key, detected.String(), bytes.NewReader(img.Data), int64(len(img.Data)))
	if err != nil {
		return User{}, domain.Upload(msgUploadFailed, err)
	}

	u.ImageURL = &url
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}
