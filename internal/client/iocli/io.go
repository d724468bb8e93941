package iocli

//go:generate go tool moq -out io_mock.go . IO

// IO абстрагирует терминальный ввод-вывод команд,
// в тестах подменяется моком
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
