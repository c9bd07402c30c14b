// Пакет authz — модель прав и шлюз доступа. Чистые решающие функции
// поверх уже загруженных данных пользователя; без I/O и без echo.
package authz

import (
	"fmt"
	"strings"
)

// --- РОЛИ ---

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
	RoleCustom = "custom"
)

// --- ДЕЙСТВИЯ ---

const (
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionAdmin  = "admin"
)

// --- РЕСУРСЫ ---

const (
	ResourceEquipments   = "equipments"
	ResourceUsage        = "usage"
	ResourceMaintenance  = "maintenance"
	ResourceRequisitions = "requisitions"
	ResourceOrders       = "orders"
	ResourceUsers        = "users"
	ResourceReports      = "reports"
)

var knownResources = map[string]bool{
	ResourceEquipments:   true,
	ResourceUsage:        true,
	ResourceMaintenance:  true,
	ResourceRequisitions: true,
	ResourceOrders:       true,
	ResourceUsers:        true,
	ResourceReports:      true,
}

var knownActions = map[string]bool{
	ActionView:   true,
	ActionEdit:   true,
	ActionDelete: true,
	ActionAdmin:  true,
}

func KnownResources() []string {
	return []string{
		ResourceEquipments, ResourceUsage, ResourceMaintenance,
		ResourceRequisitions, ResourceOrders, ResourceUsers, ResourceReports,
	}
}

// ResourcePermissions — права на один ресурс.
type ResourcePermissions struct {
	View   bool `json:"view"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
	Admin  bool `json:"admin"`
}

func (p ResourcePermissions) Has(action string) bool {
	switch action {
	case ActionView:
		return p.View
	case ActionEdit:
		return p.Edit
	case ActionDelete:
		return p.Delete
	case ActionAdmin:
		return p.Admin
	default:
		return false
	}
}

// PermissionSet — карта прав пользователя: ресурс -> права.
// Строится только через ParsePermissionSet, чтобы кривые ключи
// отсекались при конструировании, а не при проверке.
type PermissionSet map[string]ResourcePermissions

func (s PermissionSet) Has(resource, action string) bool {
	if s == nil {
		return false
	}
	return s[resource].Has(action)
}

// FullPermissionSet — все права на все ресурсы (для сидера администратора).
func FullPermissionSet() PermissionSet {
	set := make(PermissionSet, len(knownResources))
	for resource := range knownResources {
		set[resource] = ResourcePermissions{View: true, Edit: true, Delete: true, Admin: true}
	}
	return set
}

// ViewOnlyPermissionSet — только просмотр (роль viewer по умолчанию).
func ViewOnlyPermissionSet() PermissionSet {
	set := make(PermissionSet, len(knownResources))
	for resource := range knownResources {
		set[resource] = ResourcePermissions{View: true}
	}
	return set
}

// ParsePermissionSet валидирует сырую карту прав (например из JSONB).
// Неизвестный ресурс или действие — ошибка конструирования.
func ParsePermissionSet(raw map[string]map[string]bool) (PermissionSet, error) {
	set := make(PermissionSet, len(raw))
	for resource, actions := range raw {
		if !knownResources[resource] {
			return nil, fmt.Errorf("неизвестный ресурс в карте прав: %q", resource)
		}
		var rp ResourcePermissions
		for action, allowed := range actions {
			if !knownActions[action] {
				return nil, fmt.Errorf("неизвестное действие %q для ресурса %q", action, resource)
			}
			switch action {
			case ActionView:
				rp.View = allowed
			case ActionEdit:
				rp.Edit = allowed
			case ActionDelete:
				rp.Delete = allowed
			case ActionAdmin:
				rp.Admin = allowed
			}
		}
		set[resource] = rp
	}
	return set, nil
}

// SplitPermission разбирает строку "resource:action".
func SplitPermission(permission string) (resource, action string, ok bool) {
	parts := strings.SplitN(permission, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Permission собирает строку "resource:action" для деклараций роутов.
func Permission(resource, action string) string {
	return resource + ":" + action
}
