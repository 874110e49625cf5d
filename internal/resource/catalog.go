package resource

// Resource names used across services and routes.
const (
	Courses          = "courses"
	Departments      = "departments"
	Teachers         = "teachers"
	Students         = "students"
	Classrooms       = "classrooms"
	FeeStructures    = "fee-structures"
	Payments         = "payments"
	ExamRoutines     = "exam-routines"
	ExamResults      = "exam-results"
	Users            = "users"
	Availability     = "availability"
	WhiteboardThemes = "whiteboard-themes"
	Offerings        = "offerings"
	Subjects         = "subjects"
	Colleges         = "colleges"
	AcademicYears    = "academic-years"
)

var (
	genders   = []string{"Male", "Female", "Other"}
	weekdays  = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	terms     = []string{"Mid", "End", "Supplementary"}
	payModes  = []string{"Cash", "Card", "UPI", "Bank Transfer"}
	roomTypes = []string{"Lecture", "Lab", "Seminar", "Auditorium"}
	roles     = []string{"admin", "teacher", "student", "staff"}
)

// Default returns a fresh catalog with the backend's stock paths. Each call
// builds new definitions so route overrides never leak between callers.
func Default() *Catalog {
	return NewCatalog(
		&Definition{
			Name: Courses, Title: "Courses", Singular: "Course",
			IDField: "courseid", IDPrefix: "CRS", LabelField: "coursedesc",
			Style: Action, Path: "/courses", PageSize: 5,
			Fields: []Field{
				{Name: "courseid", Label: "Course ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "coursedesc", Label: "Description", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "collegedept", Label: "Department", Kind: Select, Lookup: Departments, Rules: "required", Display: true},
				{Name: "collegedeptdesc", Label: "Department Name", Kind: Text, Search: true},
				{Name: "course_totsemester", Label: "Total Semesters", Kind: Number, Rules: "omitempty,numeric", Default: "1", Display: true},
				{Name: "course_prg_startdt", Label: "Program Start", Kind: Date, Rules: "omitempty,date_ymd"},
				{Name: "course_prg_enddt", Label: "Program End", Kind: Date, Rules: "omitempty,date_ymd"},
			},
		},
		&Definition{
			Name: Departments, Title: "Departments", Singular: "Department",
			IDField: "collegedept", IDPrefix: "DEPT", LabelField: "collegedeptdesc",
			Style: REST, Path: "/depts", PageSize: 5,
			Fields: []Field{
				{Name: "collegedept", Label: "Department ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "collegedeptdesc", Label: "Description", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "collegeid", Label: "College", Kind: Select, Lookup: Colleges, Display: true},
				{Name: "depthod", Label: "Head of Department", Kind: Text, Display: true, Search: true},
			},
		},
		&Definition{
			Name: Teachers, Title: "Teachers", Singular: "Teacher",
			IDField: "teacherid", IDPrefix: "TCH", LabelField: "teachername",
			Style: REST, Path: "/teachers", PageSize: 5,
			Fields: []Field{
				{Name: "teacherid", Label: "Teacher ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "teachername", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "teachergender", Label: "Gender", Kind: Select, Options: genders, Rules: "omitempty,oneof=Male Female Other"},
				{Name: "teacherdob", Label: "Date of Birth", Kind: Date, Rules: "omitempty,date_ymd"},
				{Name: "teachercollegedept", Label: "Department", Kind: Select, Lookup: Departments, Display: true},
				{Name: "teacherdesig", Label: "Designation", Kind: Text, Display: true, Search: true},
				{Name: "teacherdoj", Label: "Date of Joining", Kind: Date, Rules: "omitempty,date_ymd"},
				{Name: "teachermob", Label: "Mobile", Kind: Text, Rules: "omitempty,phone", Display: true, Search: true},
				{Name: "teacheremailid", Label: "Email", Kind: Email, Rules: "omitempty,email_basic", Search: true},
				{Name: "teacherpan", Label: "PAN", Kind: Text, Rules: "omitempty,pan"},
				{Name: "teacheraadhaar", Label: "Aadhaar", Kind: Text, Rules: "omitempty,aadhaar"},
				{Name: "teacheraddress", Label: "Address", Kind: TextArea},
				{Name: "teacherpincode", Label: "PIN", Kind: Text, Rules: "omitempty,pin"},
			},
		},
		&Definition{
			Name: Students, Title: "Students", Singular: "Student",
			IDField: "stuid", IDPrefix: "STU", LabelField: "stuname",
			Style: Action, Path: "/students", PageSize: 6,
			Fields: []Field{
				{Name: "stuid", Label: "Student ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "stuname", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "stucourseid", Label: "Course", Kind: Select, Lookup: Courses, Rules: "required", Display: true},
				{Name: "stu_acad_year", Label: "Academic Year", Kind: Text, Display: true, Search: true},
				{Name: "stusection", Label: "Section", Kind: Text, Display: true},
				{Name: "stuadmissiondt", Label: "Admission Date", Kind: Date, Rules: "omitempty,date_ymd"},
				{Name: "stugender", Label: "Gender", Kind: Select, Options: genders, Rules: "omitempty,oneof=Male Female Other"},
				{Name: "stumob", Label: "Mobile", Kind: Text, Rules: "omitempty,phone", Search: true},
				{Name: "stuemailid", Label: "Email", Kind: Email, Rules: "omitempty,email_basic", Search: true},
				{Name: "stuguardian", Label: "Guardian", Kind: Text},
				{Name: "stuaddress", Label: "Address", Kind: TextArea},
				{Name: "stupincode", Label: "PIN", Kind: Text, Rules: "omitempty,pin"},
			},
		},
		&Definition{
			Name: Classrooms, Title: "Classrooms", Singular: "Classroom",
			IDField: "roomid", IDPrefix: "RM", LabelField: "roomname",
			Style: REST, Path: "/classrooms", PageSize: 6,
			Fields: []Field{
				{Name: "roomid", Label: "Room ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "roomname", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "roomtype", Label: "Type", Kind: Select, Options: roomTypes, Display: true},
				{Name: "roomcapacity", Label: "Capacity", Kind: Number, Rules: "omitempty,numeric", Display: true},
				{Name: "collegeid", Label: "College", Kind: Select, Lookup: Colleges},
			},
		},
		&Definition{
			Name: FeeStructures, Title: "Fee Structures", Singular: "Fee Structure",
			IDField: "feeid", IDPrefix: "FEE", LabelField: "fee_desc",
			Style: Action, Path: "/fee-structures", PageSize: 5,
			Fields: []Field{
				{Name: "feeid", Label: "Fee ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "fee_desc", Label: "Description", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "fee_course", Label: "Course", Kind: Select, Lookup: Courses, Display: true},
				{Name: "fee_acad_year", Label: "Academic Year", Kind: Select, Lookup: AcademicYears, Display: true},
				{Name: "fee_amount", Label: "Amount", Kind: Number, Rules: "required,numeric", Display: true},
				{Name: "fee_period_start", Label: "Period Start", Kind: Date, Rules: "omitempty,date_ymd"},
				{Name: "fee_period_end", Label: "Period End", Kind: Date, Rules: "omitempty,date_ymd"},
			},
		},
		&Definition{
			Name: Payments, Title: "Payments", Singular: "Payment",
			IDField: "paymentid", IDPrefix: "PAY", LabelField: "pay_reference",
			Style: REST, Path: "/payments", PageSize: 6,
			Fields: []Field{
				{Name: "paymentid", Label: "Payment ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "pay_stuid", Label: "Student", Kind: Select, Lookup: Students, Rules: "required", Display: true},
				{Name: "pay_feeid", Label: "Fee", Kind: Select, Lookup: FeeStructures, Display: true},
				{Name: "pay_amount", Label: "Amount", Kind: Number, Rules: "required,numeric", Display: true},
				{Name: "pay_date", Label: "Date", Kind: Date, Rules: "required,date_ymd", Display: true},
				{Name: "pay_mode", Label: "Mode", Kind: Select, Options: payModes, Search: true},
				{Name: "pay_reference", Label: "Reference", Kind: Text, Search: true},
			},
		},
		&Definition{
			Name: ExamRoutines, Title: "Exam Routines", Singular: "Exam Routine",
			IDField: "routineid", IDPrefix: "EXR", LabelField: "routineid",
			Style: Action, Path: "/exam-routines", PageSize: 5,
			Fields: []Field{
				{Name: "routineid", Label: "Routine ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "offerid", Label: "Offering", Kind: Select, Lookup: Offerings, Rules: "required", Display: true},
				{Name: "subjectid", Label: "Subject", Kind: Select, Lookup: Subjects, Display: true},
				{Name: "semester", Label: "Semester", Kind: Number, Rules: "omitempty,numeric", Display: true},
				{Name: "section", Label: "Section", Kind: Text, Display: true},
				{Name: "term", Label: "Term", Kind: Select, Options: terms, Search: true},
				{Name: "exam_date", Label: "Exam Date", Kind: Date, Rules: "required,date_ymd", Display: true, Search: true},
				{Name: "start_time", Label: "Start", Kind: Time},
				{Name: "end_time", Label: "End", Kind: Time},
				{Name: "roomid", Label: "Room", Kind: Select, Lookup: Classrooms},
			},
		},
		&Definition{
			Name: ExamResults, Title: "Exam Results", Singular: "Exam Result",
			IDField: "resultid", IDPrefix: "RES", LabelField: "resultid",
			Style: REST, Path: "/exam-results", PageSize: 5,
			Fields: []Field{
				{Name: "resultid", Label: "Result ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "stuid", Label: "Student", Kind: Select, Lookup: Students, Rules: "required", Display: true},
				{Name: "routineid", Label: "Exam", Kind: Select, Lookup: ExamRoutines, Rules: "required", Display: true},
				{Name: "marks_obtained", Label: "Marks", Kind: Number, Rules: "required,numeric", Display: true},
				{Name: "max_marks", Label: "Out Of", Kind: Number, Rules: "omitempty,numeric", Default: "100"},
				{Name: "grade", Label: "Grade", Kind: Text, Display: true, Search: true},
				{Name: "remarks", Label: "Remarks", Kind: TextArea},
			},
		},
		&Definition{
			Name: Users, Title: "User Accounts", Singular: "User",
			IDField: "userid", IDPrefix: "USR", LabelField: "username",
			Style: REST, Path: "/users", PageSize: 6,
			Fields: []Field{
				{Name: "userid", Label: "User ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "username", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "useremail", Label: "Email", Kind: Email, Rules: "required,email_basic", Display: true, Search: true},
				{Name: "userrole", Label: "Role", Kind: Select, Options: roles, Rules: "required,oneof=admin teacher student staff", Display: true},
				{Name: "usermob", Label: "Mobile", Kind: Text, Rules: "omitempty,phone"},
				{Name: "teacherid", Label: "Linked Teacher", Kind: Select, Lookup: Teachers},
			},
		},
		&Definition{
			Name: Availability, Title: "Availability", Singular: "Availability Slot",
			IDField: "availid", IDPrefix: "AVL", LabelField: "availid",
			Style: Action, Path: "/availability", PageSize: 6,
			Fields: []Field{
				{Name: "availid", Label: "Slot ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "teacherid", Label: "Teacher", Kind: Select, Lookup: Teachers, Rules: "required", Display: true},
				{Name: "avail_day", Label: "Day", Kind: Select, Options: weekdays, Rules: "required,oneof=Mon Tue Wed Thu Fri Sat", Display: true, Search: true},
				{Name: "avail_start", Label: "From", Kind: Time, Display: true},
				{Name: "avail_end", Label: "To", Kind: Time, Display: true},
				{Name: "roomid", Label: "Room", Kind: Select, Lookup: Classrooms},
			},
		},
		&Definition{
			Name: WhiteboardThemes, Title: "Whiteboard Themes", Singular: "Theme",
			IDField: "themeid", IDPrefix: "THM", LabelField: "themename",
			Style: REST, Path: "/whiteboard-themes", PageSize: 4,
			Fields: []Field{
				{Name: "themeid", Label: "Theme ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "themename", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "bg_color", Label: "Background", Kind: Color, Rules: "omitempty,hexcolor", Default: "#ffffff", Display: true},
				{Name: "text_color", Label: "Text", Kind: Color, Rules: "omitempty,hexcolor", Default: "#000000", Display: true},
				{Name: "header_text", Label: "Header Text", Kind: Text, Search: true},
				{Name: "collegeid", Label: "College", Kind: Select, Lookup: Colleges},
			},
		},
		&Definition{
			Name: Offerings, Title: "Course Offerings", Singular: "Offering",
			IDField: "offerid", IDPrefix: "OFR", LabelField: "offerdesc",
			Style: Action, Path: "/offerings", PageSize: 5,
			Fields: []Field{
				{Name: "offerid", Label: "Offering ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "offerdesc", Label: "Description", Kind: Text, Display: true, Search: true},
				{Name: "courseid", Label: "Course", Kind: Select, Lookup: Courses, Rules: "required", Display: true},
				{Name: "subjectid", Label: "Subject", Kind: Select, Lookup: Subjects, Display: true},
				{Name: "teacherid", Label: "Teacher", Kind: Select, Lookup: Teachers},
				{Name: "semester", Label: "Semester", Kind: Number, Rules: "omitempty,numeric"},
				{Name: "section", Label: "Section", Kind: Text},
				{Name: "term", Label: "Term", Kind: Select, Options: terms},
				{Name: "acad_year", Label: "Academic Year", Kind: Select, Lookup: AcademicYears},
			},
		},
		&Definition{
			Name: Subjects, Title: "Subjects", Singular: "Subject",
			IDField: "subjectid", IDPrefix: "SUB", LabelField: "subjectname",
			Style: REST, Path: "/subjects", PageSize: 6,
			Fields: []Field{
				{Name: "subjectid", Label: "Subject ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "subjectname", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "semester", Label: "Semester", Kind: Number, Rules: "omitempty,numeric", Display: true},
				{Name: "credits", Label: "Credits", Kind: Number, Rules: "omitempty,numeric", Display: true},
				{Name: "collegedept", Label: "Department", Kind: Select, Lookup: Departments},
			},
		},
		&Definition{
			Name: Colleges, Title: "Colleges", Singular: "College",
			IDField: "collegeid", IDPrefix: "COL", LabelField: "collegename",
			Style: REST, Path: "/colleges", PageSize: 5,
			Fields: []Field{
				{Name: "collegeid", Label: "College ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "collegename", Label: "Name", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "collegecode", Label: "Code", Kind: Text, Display: true, Search: true},
				{Name: "collegeaddress", Label: "Address", Kind: TextArea},
				{Name: "collegepincode", Label: "PIN", Kind: Text, Rules: "omitempty,pin"},
				{Name: "collegeemail", Label: "Email", Kind: Email, Rules: "omitempty,email_basic"},
				{Name: "collegephone", Label: "Phone", Kind: Text, Rules: "omitempty,phone"},
			},
		},
		&Definition{
			Name: AcademicYears, Title: "Academic Years", Singular: "Academic Year",
			IDField: "acad_year_id", IDPrefix: "AY", LabelField: "acad_year",
			Style: REST, Path: "/academic-years", PageSize: 5,
			Fields: []Field{
				{Name: "acad_year_id", Label: "ID", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "acad_year", Label: "Academic Year", Kind: Text, Rules: "required", Display: true, Search: true},
				{Name: "start_date", Label: "Start", Kind: Date, Rules: "omitempty,date_ymd", Display: true},
				{Name: "end_date", Label: "End", Kind: Date, Rules: "omitempty,date_ymd", Display: true},
			},
		},
	)
}
