package constants

const (
	ViewData            = "view_data"
	RecordDonation      = "record_donation"
	DeleteDonation      = "delete_donation"
	DistributeDonation  = "distribute_donation"
	ManageBeneficiaries = "manage_beneficiaries"
	DeleteBeneficiary   = "delete_beneficiary"
	UpdateOrg           = "update_org"
	AssignRole          = "assign_role"
	RemoveUser          = "remove_user"
)
