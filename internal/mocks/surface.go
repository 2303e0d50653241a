package mocks

import (
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockSurface is a mock implementation of service.Surface
type MockSurface struct {
	mock.Mock
}

func (m *MockSurface) PresentLogin() {
	m.Called()
}

func (m *MockSurface) DismissForm(form service.Form) {
	m.Called(form)
}

func (m *MockSurface) ResetForm(form service.Form) {
	m.Called(form)
}

func (m *MockSurface) ShowFormMessage(form service.Form, message string) {
	m.Called(form, message)
}

func (m *MockSurface) SetIdentity(firstName string) {
	m.Called(firstName)
}

func (m *MockSurface) SetAccountRegion(loggedIn bool) {
	m.Called(loggedIn)
}
