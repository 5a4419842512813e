package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Photo queries.
const (
	queryCreatePhoto = `
		INSERT INTO photos (
			id, owner_id, image_ref, filename, upload_order, sku, item_id, status,
			created_at, updated_at
		) VALUES (
			@id, @owner_id, @image_ref, @filename, @upload_order, @sku, @item_id, @status,
			now(), now()
		)
		RETURNING created_at, updated_at`

	queryGetPhoto = `
		SELECT id, owner_id, image_ref, filename, upload_order, sku, item_id, status,
			created_at, updated_at
		FROM photos
		WHERE owner_id = $1 AND id = $2`

	queryUpdatePhotoSKU = `
		UPDATE photos SET
			sku = $3,
			status = $4,
			updated_at = now()
		WHERE owner_id = $1 AND id = $2`

	queryLinkPhotos = `
		UPDATE photos SET
			item_id = $3,
			status = 'processed',
			updated_at = now()
		WHERE owner_id = $1 AND sku = $2`

	queryResetPhotos = `
		UPDATE photos SET
			sku = NULL,
			item_id = NULL,
			status = 'uploaded',
			updated_at = now()
		WHERE owner_id = $1 AND sku = $2`
)

// Item queries.
const (
	queryCreateItem = `
		INSERT INTO items (
			id, owner_id, sku, photo_refs, primary_photo,
			title, description, price, category, condition,
			brand, size, color, model_number, keywords,
			confidence, analysis_metadata, status, generation_error,
			created_at, updated_at
		) VALUES (
			@id, @owner_id, @sku, @photo_refs, @primary_photo,
			@title, @description, @price, @category, @condition,
			@brand, @size, @color, @model_number, @keywords,
			@confidence, @analysis_metadata, @status, @generation_error,
			now(), now()
		)
		RETURNING updated_at`

	queryUpdateItem = `
		UPDATE items SET
			photo_refs = @photo_refs,
			primary_photo = @primary_photo,
			title = @title,
			description = @description,
			price = @price,
			category = @category,
			condition = @condition,
			brand = @brand,
			size = @size,
			color = @color,
			model_number = @model_number,
			keywords = @keywords,
			confidence = @confidence,
			analysis_metadata = @analysis_metadata,
			status = @status,
			generation_error = @generation_error,
			updated_at = now()
		WHERE owner_id = @owner_id AND id = @id
		RETURNING updated_at`

	queryGetItem = `
		SELECT id, owner_id, sku, photo_refs, primary_photo,
			title, description, price, category, condition,
			COALESCE(brand, ''), COALESCE(size, ''), COALESCE(color, ''),
			COALESCE(model_number, ''), keywords,
			confidence, COALESCE(analysis_metadata, '{}'), status,
			COALESCE(generation_error, ''), updated_at
		FROM items
		WHERE owner_id = $1 AND id = $2`

	queryListItems = `
		SELECT id, owner_id, sku, photo_refs, primary_photo,
			title, description, price, category, condition,
			COALESCE(brand, ''), COALESCE(size, ''), COALESCE(color, ''),
			COALESCE(model_number, ''), keywords,
			confidence, COALESCE(analysis_metadata, '{}'), status,
			COALESCE(generation_error, ''), updated_at
		FROM items
		WHERE owner_id = $1
		ORDER BY sku`

	queryDeleteItem = `
		DELETE FROM items
		WHERE owner_id = $1 AND id = $2`

	queryUpdateItemStatus = `
		UPDATE items SET
			status = $3,
			generation_error = $4,
			updated_at = now()
		WHERE owner_id = $1 AND id = $2`

	queryListStuckItems = `
		SELECT id, owner_id, sku, photo_refs, primary_photo,
			title, description, price, category, condition,
			COALESCE(brand, ''), COALESCE(size, ''), COALESCE(color, ''),
			COALESCE(model_number, ''), keywords,
			confidence, COALESCE(analysis_metadata, '{}'), status,
			COALESCE(generation_error, ''), updated_at
		FROM items
		WHERE status = 'analyzing' AND updated_at < now() - $1::interval
		ORDER BY updated_at`
)
