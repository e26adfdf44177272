package expediente

import (
	"context"

	"github.com/sisexp/api/internal/repo"
)

// ExpedienteRepository es el almacenamiento que usa el servicio.
type ExpedienteRepository interface {
	List(ctx context.Context, f Filter) ([]Row, int64, error)
	Get(ctx context.Context, id int64) (Row, error)
	Insert(ctx context.Context, e NewExpediente) (int64, error)
	Update(ctx context.Context, id int64, c Changes) error
	Delete(ctx context.Context, id int64) error
}

// ReferenceChecker verifica la existencia de filas referenciadas.
type ReferenceChecker interface {
	Exists(ctx context.Context, tabla repo.Tabla, id int64) (bool, error)
}

// Service reúne consultas y mutaciones de expedientes. Toda validación
// ocurre antes de cualquier escritura.
type Service struct {
	repo ExpedienteRepository
	refs ReferenceChecker
}

func NewService(r ExpedienteRepository, refs ReferenceChecker) *Service {
	return &Service{repo: r, refs: refs}
}

// List devuelve la página pedida. Los ids de filtro inexistentes sólo dan
// resultados vacíos.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		return Page{}, invalid("page inválido")
	}
	if f.PageSize < 1 {
		return Page{}, invalid("page_size inválido")
	}
	if _, ok := f.offset(); !ok {
		return Page{}, invalid("page inválido")
	}
	if f.Estado != nil && !IsValidEstado(string(*f.Estado)) {
		return Page{}, invalid(msgEstadoInvalido)
	}

	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return Page{Page: f.Page, PageSize: f.PageSize, Total: total, Data: rows}, nil
}

// Get devuelve un expediente o ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Row, error) {
	return s.repo.Get(ctx, id)
}

// Create valida los seis campos y las cuatro referencias y luego inserta.
func (s *Service) Create(ctx context.Context, in Input) (int64, error) {
	if !in.complete() {
		return 0, invalid(msgObligatorios)
	}

	changes, err := s.validate(ctx, in)
	if err != nil {
		return 0, err
	}

	return s.repo.Insert(ctx, NewExpediente{
		AseguradoraID: *changes.AseguradoraID,
		UsuarioID:     *changes.UsuarioID,
		JuzgadoID:     *changes.JuzgadoID,
		CasoID:        *changes.CasoID,
		Estado:        *changes.Estado,
		Fecha:         *changes.Fecha,
	})
}

// Update valida cada campo presente y aplica la modificación parcial.
func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	if in.empty() {
		return invalid(msgSinCambios)
	}

	changes, err := s.validate(ctx, in)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, id, changes)
}

// Delete elimina un expediente o devuelve ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// validate revisa primero estado y fecha y después las referencias, en el
// orden aseguradora, usuario, juzgado, caso. El primer fallo corta.
func (s *Service) validate(ctx context.Context, in Input) (Changes, error) {
	var c Changes

	if in.Estado != nil {
		if !IsValidEstado(*in.Estado) {
			return Changes{}, invalid(msgEstadoInvalido)
		}
		estado := Estado(*in.Estado)
		c.Estado = &estado
	}

	if in.Fecha != nil {
		fecha, ok := ParseFecha(*in.Fecha)
		if !ok {
			return Changes{}, invalid(msgFechaInvalida)
		}
		c.Fecha = &fecha
	}

	refs := []struct {
		campo string
		tabla repo.Tabla
		id    *int64
	}{
		{"aseguradora_id", repo.TablaAseguradora, in.AseguradoraID},
		{"usuario_id", repo.TablaUsuario, in.UsuarioID},
		{"juzgado_id", repo.TablaJuzgado, in.JuzgadoID},
		{"caso_id", repo.TablaCaso, in.CasoID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := s.refs.Exists(ctx, ref.tabla, *ref.id)
		if err != nil {
			return Changes{}, err
		}
		if !ok {
			return Changes{}, &ReferenceError{Campo: ref.campo}
		}
	}

	c.AseguradoraID = in.AseguradoraID
	c.UsuarioID = in.UsuarioID
	c.JuzgadoID = in.JuzgadoID
	c.CasoID = in.CasoID
	return c, nil
}
