package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lizet96/historia-clinica/database"
	"github.com/lizet96/historia-clinica/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// CierreInput es el formulario de cierre de historia
type CierreInput struct {
	ID                  uint   `form:"id" json:"id"`
	AtencionID          uint   `form:"atencion_id" json:"atencion_id"`
	FirmaPaciente       string `form:"firma_paciente" json:"firma_paciente"`
	FechaHoraCierre     string `form:"fecha_hora_cierre" json:"fecha_hora_cierre"`
	ResponsableRegistro string `form:"responsable_registro" json:"responsable_registro"`
}

func (in *CierreInput) validate() error {
	v := validator{}
	if in.ID == 0 && in.AtencionID == 0 {
		v["atencion_id"] = "requerido"
	}
	v.required("fecha_hora_cierre", in.FechaHoraCierre)
	v.required("responsable_registro", in.ResponsableRegistro)
	return v.err()
}

// Cierres administra el cierre de historia de cada atención. Una atención
// tiene como máximo un cierre; guardar otro sin id reemplaza al existente.
type Cierres struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewCierres(db *gorm.DB, log zerolog.Logger) *Cierres {
	return &Cierres{db: db, log: log}
}

// ObtenerPorAtencion devuelve el cierre de la atención
func (s *Cierres) ObtenerPorAtencion(ctx context.Context, atencionID uint) (*models.CierreHistoria, error) {
	var c models.CierreHistoria
	if err := s.db.WithContext(ctx).Where("atencion_id = ?", atencionID).First(&c).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("Cierre de historia no encontrado")
		}
		return nil, fmt.Errorf("obtener cierre de la atención %d: %w", atencionID, err)
	}
	return &c, nil
}

// Guardar crea o actualiza un cierre de historia
func (s *Cierres) Guardar(ctx context.Context, in CierreInput) (*models.CierreHistoria, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	fecha, err := ParseTimestamp(in.FechaHoraCierre)
	if err != nil {
		return nil, err
	}

	var c models.CierreHistoria
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ID != 0 {
			if err := tx.First(&c, in.ID).Error; err != nil {
				if database.IsNotFound(err) {
					return notFound("Cierre de historia no encontrado")
				}
				return err
			}
		} else {
			var n int64
			if err := tx.Model(&models.Atencion{}).Where("id = ?", in.AtencionID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return notFound("Atención no encontrada")
			}
			err := tx.Where("atencion_id = ?", in.AtencionID).First(&c).Error
			if err != nil && !database.IsNotFound(err) {
				return err
			}
			c.AtencionID = in.AtencionID
		}

		c.FirmaPaciente = in.FirmaPaciente
		c.FechaHoraCierre = fecha
		c.ResponsableRegistro = in.ResponsableRegistro
		if c.ID != 0 {
			return tx.Save(&c).Error
		}

		// savepoint: otra petición pudo cerrar la misma atención entre la
		// lectura y el INSERT
		err := tx.Transaction(func(sp *gorm.DB) error { return sp.Create(&c).Error })
		if !database.IsUniqueViolation(err) {
			return err
		}
		var existente models.CierreHistoria
		if err := tx.Where("atencion_id = ?", in.AtencionID).First(&existente).Error; err != nil {
			return err
		}
		c.ID = existente.ID
		return tx.Save(&c).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("guardar cierre de historia: %w", err)
	}

	s.log.Info().Uint("cierre_id", c.ID).Uint("atencion_id", c.AtencionID).Msg("Cierre de historia guardado")
	return &c, nil
}
