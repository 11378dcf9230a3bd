// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Service katmanı bu error'ları fmt.Errorf("%w: ...") ile sararak döner,
// handler katmanı errors.Is() ile yakalayıp HTTP status code'a çevirir:
//
//	if errors.Is(err, pkg.ErrBadRequest) { ... }
package pkg

import "errors"

// Domain-level error'lar.
var (
	ErrNotFound    = errors.New("not found")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("too many requests")

	// ErrUnavailable, opsiyonel bir dış servis (ör. email) yapılandırılmadığında
	// veya geçici olarak erişilemediğinde döner.
	ErrUnavailable = errors.New("service unavailable")
	ErrInternal    = errors.New("internal error")
)
