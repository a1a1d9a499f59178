package browser

// extractScript runs inside the page and returns the full RawSnapshot shape
// in one pass: interactive elements with geometry and container flags, page
// text, and friction markers. Elements are tagged with data-uxb so the
// reported locators remain actionable afterwards.
const extractScript = `() => {
	const isVisible = (el) => {
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};

	const flags = (el) => ({
		in_nav: !!el.closest('nav, [role="navigation"]'),
		in_header: !!el.closest('header'),
		in_footer: !!el.closest('footer'),
		in_aside: !!el.closest('aside'),
		in_form: !!el.closest('form'),
	});

	const describe = (el, kind, idx) => {
		el.setAttribute('data-uxb', String(idx));
		const rect = el.getBoundingClientRect();
		const abs = {
			x: rect.x + window.scrollX,
			y: rect.y + window.scrollY,
			width: rect.width,
			height: rect.height,
		};
		return Object.assign({
			kind: kind,
			tag: el.tagName.toLowerCase(),
			text: (el.innerText || el.value || el.getAttribute('aria-label') || el.getAttribute('placeholder') || '').trim().slice(0, 120),
			href: el.getAttribute('href') || '',
			locator: '[data-uxb="' + idx + '"]',
			class: el.getAttribute('class') || '',
			id: el.getAttribute('id') || '',
			visible: isVisible(el),
			rect: abs,
		}, flags(el));
	};

	const elements = [];
	let idx = 0;
	document.querySelectorAll('button, input[type="button"], input[type="submit"], [role="button"]').forEach((el) => {
		elements.push(describe(el, 'button', idx++));
	});
	document.querySelectorAll('a[href]').forEach((el) => {
		elements.push(describe(el, 'link', idx++));
	});
	document.querySelectorAll('input:not([type="hidden"]):not([type="button"]):not([type="submit"]), textarea, select').forEach((el) => {
		elements.push(describe(el, 'input', idx++));
	});

	const anyVisible = (selector) => {
		for (const el of document.querySelectorAll(selector)) {
			if (isVisible(el)) return true;
		}
		return false;
	};

	const bodyText = (document.body && document.body.innerText) || '';

	return {
		text: bodyText.slice(0, 20000),
		elements: elements,
		has_modal: anyVisible('[role="dialog"], dialog[open], .modal.show, .modal[style*="display: block"]'),
		has_error: anyVisible('[role="alert"], .error, .alert-danger, .alert-error'),
		has_captcha: anyVisible('.g-recaptcha, .h-captcha, [class*="captcha"], iframe[src*="captcha"], iframe[src*="recaptcha"]'),
		page_width: document.documentElement.scrollWidth,
		page_height: document.documentElement.scrollHeight,
		viewport_h: window.innerHeight,
	};
}`
