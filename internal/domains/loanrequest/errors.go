package loanrequest

import "errors"

// Validation errors.
var (
	ErrIDsRequired       = errors.New("User ID and Book ID are required")
	ErrRequestNotSelf    = errors.New("Members can only request loans for themselves")
	ErrBookInMaintenance = errors.New("Book is currently under maintenance and cannot be requested")
)

// Submission failures.
var (
	ErrEmailFailed   = errors.New("Failed to send loan request email")
	ErrProcessFailed = errors.New("Failed to process loan request")
)

// Review-path errors. The review pages are Spanish-facing, the
// submission path is English-facing; the messages follow suit.
var (
	ErrTokenReviewerRequired = errors.New("Token y bibliotecario son requeridos")
	ErrTokenRequired         = errors.New("Token es requerido")
	ErrRequestNotFound       = errors.New("Solicitud no encontrada o token inválido")
	ErrAlreadyProcessed      = errors.New("Esta solicitud ya ha sido procesada")
	ErrBookUnavailable       = errors.New("El libro ya no está disponible")
	ErrUserNotFound          = errors.New("Usuario no encontrado")
	ErrBookNotFound          = errors.New("Libro no encontrado")
	ErrInfoNotFound          = errors.New("No se pudo encontrar información del libro o usuario")
	ErrApproveFailed         = errors.New("Error al aprobar la solicitud")
	ErrRejectFailed          = errors.New("Error al rechazar la solicitud")
	ErrInternal              = errors.New("Error interno del servidor")
)

// Confirmation messages of the review flow.
const (
	MsgRequestSent  = "Loan request sent successfully. The librarian will review your request and contact you soon."
	MsgApproved     = "Solicitud aprobada exitosamente"
	MsgRejected     = "Solicitud rechazada exitosamente"
	MsgRequestFound = "Solicitud encontrada"
)
