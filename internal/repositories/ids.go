package repositories

import "github.com/google/uuid"

// validID: Postgres отвергает не-uuid в условии по id, такой id просто не найден
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
