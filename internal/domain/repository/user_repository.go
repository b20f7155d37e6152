package repository

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Solo lo necesario para login/registro; el motor usa el ID como actor.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
