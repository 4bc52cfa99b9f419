package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
	"github.com/colegiosys/colegio-api/pkg/export"
)

type exportUserRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error)
}

// ExportResult carries rendered bytes plus download metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders account rosters in CSV, PDF and XLSX formats.
type ExportService struct {
	users  exportUserRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	xlsx   *export.XLSXExporter
	logger *zap.Logger
}

// NewExportService creates a new export service instance.
func NewExportService(users exportUserRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		users:  users,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		xlsx:   export.NewXLSXExporter(),
		logger: logger,
	}
}

func userDataset(users []models.User) export.Dataset {
	data := export.Dataset{
		Headers: []string{"DNI", "Nombre completo", "Correo", "Rol", "Estado"},
	}
	for _, u := range users {
		estado := "Inactivo"
		if u.Active {
			estado = "Activo"
		}
		data.Rows = append(data.Rows, map[string]string{
			"DNI":             u.DNI,
			"Nombre completo": u.FullName,
			"Correo":          u.Email,
			"Rol":             string(u.Role),
			"Estado":          estado,
		})
	}
	return data
}

// Users renders the account roster matching the filter in the requested
// format. The listing is walked page by page so the export covers every
// match regardless of the configured page cap.
func (s *ExportService) Users(ctx context.Context, filter models.UserFilter, format string) (*ExportResult, error) {
	filter.Page = 1
	filter.Limit = 100

	var users []models.User
	for {
		page, pagination, err := s.users.List(ctx, filter)
		if err != nil {
			return nil, storageErr(err, "failed to load users for export")
		}
		users = append(users, page...)
		if pagination == nil || pagination.Page >= pagination.Pages {
			break
		}
		filter.Page = pagination.Page + 1
	}

	data := userDataset(users)
	stamp := time.Now().Format("2006-01-02")

	switch format {
	case "csv", "":
		raw, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("usuarios_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        raw,
		}, nil
	case "pdf":
		raw, err := s.pdf.Render(data, "Listado de usuarios")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("usuarios_%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        raw,
		}, nil
	case "xlsx":
		raw, err := s.xlsx.Render(data, "Usuarios")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("usuarios_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        raw,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "Formato de exportación no soportado")
	}
}
