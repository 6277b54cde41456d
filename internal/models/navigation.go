package models

// MenuItem identifies an administrative section. It is the unit of
// permission granting for scoped admins.
type MenuItem string

const (
	MenuDashboard     MenuItem = "dashboard"
	MenuRegistrations MenuItem = "registrations"
	MenuStudents      MenuItem = "students"
	MenuResults       MenuItem = "results"
	MenuPayments      MenuItem = "payments"
	MenuCourses       MenuItem = "courses"
	MenuDocuments     MenuItem = "documents"
	MenuTimetable     MenuItem = "timetable"
	MenuManageAdmins  MenuItem = "manage_admins"
)

// AdminPermission grants a scoped admin access to one menu item.
type AdminPermission struct {
	ID          string   `db:"id" json:"id"`
	AdminUserID string   `db:"admin_user_id" json:"admin_user_id"`
	MenuItem    MenuItem `db:"menu_item" json:"menu_item"`
}

// Section describes a navigable application section. Icon is an opaque
// reference resolved by the presentation layer.
type Section struct {
	ID    MenuItem `json:"id"`
	Label string   `json:"label"`
	Route string   `json:"route"`
	Icon  string   `json:"icon"`
}

// StudentSections is the fixed, role-invariant student navigation list.
var StudentSections = []Section{
	{ID: "dashboard", Label: "Dashboard", Route: "/student", Icon: "layout-dashboard"},
	{ID: "fees", Label: "Fees", Route: "/student/fees", Icon: "credit-card"},
	{ID: "biodata", Label: "Bio Data", Route: "/student/biodata", Icon: "user"},
	{ID: "payments", Label: "Other Payments", Route: "/student/payments", Icon: "receipt"},
	{ID: "courses", Label: "Course Registration", Route: "/student/courses", Icon: "file-text"},
	{ID: "timetable", Label: "Timetable", Route: "/student/timetable", Icon: "calendar"},
	{ID: "results", Label: "Results", Route: "/student/results", Icon: "clipboard-list"},
	{ID: "hostel", Label: "Hostel", Route: "/student/hostel", Icon: "home"},
	{ID: "change-programme", Label: "Change Programme", Route: "/student/change-programme", Icon: "file-edit"},
	{ID: "documents", Label: "Documents", Route: "/student/documents", Icon: "file-text"},
}

// AdminSectionCatalog is the canonical, ordered admin section catalog.
// Scoped admins see the subset matching their grants, in this order.
var AdminSectionCatalog = []Section{
	{ID: MenuDashboard, Label: "Dashboard", Route: "/admin", Icon: "layout-dashboard"},
	{ID: MenuRegistrations, Label: "Approve Registrations", Route: "/admin/registrations", Icon: "user-plus"},
	{ID: MenuStudents, Label: "Manage Students", Route: "/admin/students", Icon: "users"},
	{ID: MenuResults, Label: "Update Results", Route: "/admin/results", Icon: "clipboard-list"},
	{ID: MenuPayments, Label: "Manage Payments", Route: "/admin/payments", Icon: "dollar-sign"},
	{ID: MenuCourses, Label: "Manage Courses", Route: "/admin/courses", Icon: "graduation-cap"},
	{ID: MenuDocuments, Label: "Upload Documents", Route: "/admin/documents", Icon: "file-text"},
	{ID: MenuTimetable, Label: "Timetable", Route: "/admin/timetable", Icon: "calendar"},
}

// ManageAdminsSection is reachable by super admins only.
var ManageAdminsSection = Section{ID: MenuManageAdmins, Label: "Manage Admins", Route: "/admin/manage-admins", Icon: "shield"}

// LogoutSection is appended to every menu regardless of role or grants.
var LogoutSection = Section{ID: "logout", Label: "Logout", Route: "/logout", Icon: "log-out"}

// AllMenuItems returns the grantable menu item identifiers in catalog order.
func AllMenuItems() []MenuItem {
	items := make([]MenuItem, 0, len(AdminSectionCatalog))
	for _, s := range AdminSectionCatalog {
		items = append(items, s.ID)
	}
	return items
}

// ValidMenuItem reports whether the identifier names a grantable section.
func ValidMenuItem(item MenuItem) bool {
	for _, s := range AdminSectionCatalog {
		if s.ID == item {
			return true
		}
	}
	return false
}
