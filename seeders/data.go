package seeders

import "request-board/pkg/constants"

type statusSeed struct {
	Code       string
	Name       string
	SortOrder  int
	IsTerminal bool
}

// Каталог статусов по умолчанию. Граф переходов задаётся данными,
// добавление нового промежуточного статуса — правка этого списка.
var statusesData = []statusSeed{
	{Code: constants.StatusUnassigned, Name: "Не назначена", SortOrder: 10, IsTerminal: false},
	{Code: constants.StatusAssigned, Name: "Назначена", SortOrder: 20, IsTerminal: false},
	{Code: constants.StatusInProgress, Name: "В работе", SortOrder: 30, IsTerminal: false},
	{Code: constants.StatusDone, Name: "Выполнена", SortOrder: 40, IsTerminal: true},
}

type codeNameSeed struct {
	Code string
	Name string
}

var requestTypesData = []codeNameSeed{
	{Code: "INCIDENT", Name: "Инцидент"},
	{Code: "SERVICE", Name: "Обслуживание"},
	{Code: "CHANGE", Name: "Изменение"},
	{Code: "QUESTION", Name: "Вопрос"},
}

type prioritySeed struct {
	Code      string
	Name      string
	SortOrder int
}

var prioritiesData = []prioritySeed{
	{Code: "CRITICAL", Name: "Критический", SortOrder: 10},
	{Code: "HIGH", Name: "Высокий", SortOrder: 20},
	{Code: "MEDIUM", Name: "Средний", SortOrder: 30},
	{Code: "LOW", Name: "Низкий", SortOrder: 40},
}

var rolesData = []codeNameSeed{
	{Code: constants.RoleAdmin, Name: "Администратор"},
	{Code: constants.RoleAnalyst, Name: "Аналитик"},
}
