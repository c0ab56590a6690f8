package storage

type TextRepository interface {
	Save(folder, filename, text string) error
}
