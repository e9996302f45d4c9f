package postgres

// GetMigrations returns all embedded migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_people",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_internships",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_applications_and_withdrawals",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: STUDENTS, COMPANY REPRESENTATIVES, STAFF
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS students (
    id VARCHAR(9) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    year_of_study SMALLINT NOT NULL,
    major VARCHAR(100) NOT NULL DEFAULT '',
    email VARCHAR(254) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_student_id CHECK (id ~ '^U[0-9]{7}[A-Z]$'),
    CONSTRAINT valid_year CHECK (year_of_study BETWEEN 1 AND 4)
);

CREATE TABLE IF NOT EXISTS company_reps (
    id VARCHAR(254) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    company_name VARCHAR(200) NOT NULL,
    department VARCHAR(200) NOT NULL,
    position VARCHAR(200) NOT NULL,
    email VARCHAR(254) NOT NULL,
    approved BOOLEAN NOT NULL DEFAULT FALSE,
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_company_reps_company ON company_reps(LOWER(company_name));

CREATE TABLE IF NOT EXISTS staff (
    id VARCHAR(50) PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    role VARCHAR(100) NOT NULL,
    department VARCHAR(200) NOT NULL,
    email VARCHAR(254) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migration001Down = `
DROP TABLE IF EXISTS staff;
DROP TABLE IF EXISTS company_reps;
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: INTERNSHIPS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS internships (
    id VARCHAR(64) PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL,
    level VARCHAR(20) NOT NULL,
    preferred_major VARCHAR(100) NOT NULL,
    open_date DATE NOT NULL,
    close_date DATE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    company_name VARCHAR(200) NOT NULL,
    created_by VARCHAR(254) NOT NULL,
    max_slots SMALLINT NOT NULL,
    confirmed_slots SMALLINT NOT NULL DEFAULT 0,
    visible BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_level CHECK (level IN ('BASIC', 'INTERMEDIATE', 'ADVANCED')),
    CONSTRAINT valid_internship_status CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED', 'FILLED', 'CLOSED')),
    CONSTRAINT valid_window CHECK (close_date >= open_date),
    CONSTRAINT valid_max_slots CHECK (max_slots BETWEEN 1 AND 10),
    CONSTRAINT valid_confirmed_slots CHECK (confirmed_slots BETWEEN 0 AND max_slots)
);

CREATE INDEX IF NOT EXISTS idx_internships_company ON internships(LOWER(company_name));
CREATE INDEX IF NOT EXISTS idx_internships_status ON internships(status);
CREATE INDEX IF NOT EXISTS idx_internships_close_date ON internships(close_date) WHERE status = 'APPROVED';
`

const migration002Down = `
DROP TABLE IF EXISTS internships;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: APPLICATIONS, WITHDRAWAL REQUESTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS applications (
    id VARCHAR(64) PRIMARY KEY,
    student_id VARCHAR(9) NOT NULL REFERENCES students(id),
    internship_id VARCHAR(64) NOT NULL,
    applied_on DATE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    student_accepted BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_application_status CHECK (status IN ('PENDING', 'SUCCESSFUL', 'UNSUCCESSFUL', 'WITHDRAWN')),
    CONSTRAINT accepted_only_successful CHECK (NOT student_accepted OR status = 'SUCCESSFUL'),
    CONSTRAINT one_application_per_posting UNIQUE (student_id, internship_id)
);

CREATE INDEX IF NOT EXISTS idx_applications_student ON applications(student_id);
CREATE INDEX IF NOT EXISTS idx_applications_internship ON applications(internship_id);

-- at most one confirmed placement per student
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_one_placement
    ON applications(student_id) WHERE student_accepted;

CREATE TABLE IF NOT EXISTS withdrawal_requests (
    id VARCHAR(64) PRIMARY KEY,
    application_id VARCHAR(64) NOT NULL REFERENCES applications(id),
    requested_by VARCHAR(9) NOT NULL,
    requested_on DATE NOT NULL,
    reason TEXT NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    processed_by VARCHAR(50) NOT NULL DEFAULT '',
    processed_on DATE,
    staff_note TEXT NOT NULL DEFAULT '',

    CONSTRAINT valid_withdrawal_status CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED'))
);

CREATE INDEX IF NOT EXISTS idx_withdrawals_application ON withdrawal_requests(application_id);
CREATE INDEX IF NOT EXISTS idx_withdrawals_pending ON withdrawal_requests(requested_on) WHERE status = 'PENDING';

-- one pending request per application
CREATE UNIQUE INDEX IF NOT EXISTS idx_withdrawals_one_pending
    ON withdrawal_requests(application_id) WHERE status = 'PENDING';
`

const migration003Down = `
DROP TABLE IF EXISTS withdrawal_requests;
DROP TABLE IF EXISTS applications;
`
