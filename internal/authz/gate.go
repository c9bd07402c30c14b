package authz

import "fmt"

// DenyReason — причина отказа в доступе.
type DenyReason string

const (
	DenyUnauthenticated   DenyReason = "unauthenticated"
	DenyInsufficientRole  DenyReason = "insufficient_role"
	DenyMissingPermission DenyReason = "missing_permission"
)

// Subject — минимальный срез пользователя, нужный шлюзу.
type Subject struct {
	Role        string
	Permissions PermissionSet
}

// Decision — результат проверки доступа. Отказ — это ожидаемый исход,
// а не ошибка: редиректы и 403 решает вызывающий слой.
type Decision struct {
	Allowed  bool
	Reason   DenyReason
	Resource string
	Action   string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func DenyPermission(resource, action string) Decision {
	return Decision{Allowed: false, Reason: DenyMissingPermission, Resource: resource, Action: action}
}

func (d Decision) String() string {
	if d.Allowed {
		return "allow"
	}
	if d.Reason == DenyMissingPermission {
		return fmt.Sprintf("deny(%s: %s:%s)", d.Reason, d.Resource, d.Action)
	}
	return fmt.Sprintf("deny(%s)", d.Reason)
}

// Authorize решает, допущен ли пользователь к странице/операции.
//
//  1. Нет пользователя — отказ Unauthenticated.
//  2. requiredRole задана и не совпала — отказ InsufficientRole;
//     роль admin проходит любую проверку роли.
//  3. Каждая запись requiredPermissions ("resource:action") должна быть
//     явно включена в карте прав — логическое И, режима "любой из" нет.
//     Роль admin проверку прав НЕ обходит: требуется материализованная
//     карта (поведение исходной системы сохранено намеренно).
//
// Функция синхронная и без побочных эффектов; загрузка профиля
// пользователя — забота вызывающего.
func Authorize(subject *Subject, requiredRole string, requiredPermissions []string) Decision {
	if subject == nil {
		return Deny(DenyUnauthenticated)
	}

	if requiredRole != "" && subject.Role != requiredRole && subject.Role != RoleAdmin {
		return Deny(DenyInsufficientRole)
	}

	for _, permission := range requiredPermissions {
		resource, action, ok := SplitPermission(permission)
		if !ok {
			// Кривая декларация закрывает доступ, а не открывает.
			return DenyPermission(permission, "")
		}
		if !subject.Permissions.Has(resource, action) {
			return DenyPermission(resource, action)
		}
	}

	return Allow()
}
