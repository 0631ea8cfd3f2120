package userservice

// User модель пользователя из UserService
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// DisplayName имя для денормализации в запись; при пустом имени - идентификатор
func (u *User) DisplayName() string {
	if u.Name == "" {
		return u.ID
	}
	return u.Name
}

// IsPatient пользователь зарегистрирован у провайдера как пациент
func (u *User) IsPatient() bool {
	return u.Role == "patient"
}
