package store

const (
	saveSession = `INSERT INTO sync_sessions (
			id,
			pair_key,
			direction,
			method,
			phase,
			started_at,
			updated_at,
			estimated_completion,
			transfer_speed,
			bytes_total,
			bytes_transferred,
			entities_total,
			entities_transferred,
			cursors,
			error_message,
			report_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			phase = EXCLUDED.phase,
			updated_at = EXCLUDED.updated_at,
			estimated_completion = EXCLUDED.estimated_completion,
			transfer_speed = EXCLUDED.transfer_speed,
			bytes_total = EXCLUDED.bytes_total,
			bytes_transferred = EXCLUDED.bytes_transferred,
			entities_total = EXCLUDED.entities_total,
			entities_transferred = EXCLUDED.entities_transferred,
			cursors = EXCLUDED.cursors,
			error_message = EXCLUDED.error_message,
			report_id = EXCLUDED.report_id;`

	loadSession = `SELECT id, pair_key, direction, method, phase, started_at, updated_at,
			estimated_completion, transfer_speed, bytes_total, bytes_transferred,
			entities_total, entities_transferred, cursors, error_message, report_id
		FROM sync_sessions
		WHERE id = $1;`

	saveReport = `INSERT INTO reconciliation_reports (
			id, session_id, created_at, exact_matches, expected_differences,
			unexpected_mismatches, findings, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	loadReport = `SELECT id, session_id, created_at, exact_matches, expected_differences,
			unexpected_mismatches, findings, status
		FROM reconciliation_reports
		WHERE id = $1;`

	acquireLease = `INSERT INTO sync_leases (pair_key, owner, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (pair_key) DO UPDATE SET
			owner = EXCLUDED.owner,
			expires_at = EXCLUDED.expires_at
		WHERE sync_leases.expires_at < NOW() OR sync_leases.owner = EXCLUDED.owner;`

	renewLease = `UPDATE sync_leases
		SET expires_at = $3
		WHERE pair_key = $1 AND owner = $2 AND expires_at >= NOW();`

	releaseLease = `DELETE FROM sync_leases
		WHERE pair_key = $1 AND owner = $2;`
)
